package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/andolan/internal/clients/registration"
	"github.com/bobmcallan/andolan/internal/models"
)

type registerOptions struct {
	app      models.MemberApplication
	youth    bool
	document string
	mock     bool
}

func newRegisterCmd(opts *globalOptions) *cobra.Command {
	ro := &registerOptions{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Submit a membership application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, opts, ro)
		},
	}
	f := cmd.Flags()
	f.StringVar(&ro.app.Name, "name", "", "applicant name")
	f.StringVar(&ro.app.Village, "village", "", "village")
	f.StringVar(&ro.app.City, "city", "", "city or district")
	f.StringVar(&ro.app.PhoneNumber, "phone", "", "phone number")
	f.StringVar(&ro.app.Details, "details", "", "additional details (general membership)")
	f.BoolVar(&ro.youth, "youth", false, "apply to the youth leadership programme")
	f.StringVar(&ro.app.Age, "age", "", "age (youth programme)")
	f.StringVar(&ro.app.Education, "education", "", "education (youth programme)")
	f.StringVar(&ro.app.Experience, "experience", "", "experience (youth programme)")
	f.StringVar(&ro.document, "document", "", "path to an identity document photo")
	f.StringVar(&ro.app.DocumentType, "document-type", "", "document type: Aadhaar|PAN|Ration Card|Other")
	f.BoolVar(&ro.mock, "mock", false, "allow the demo strategy outside production")
	return cmd
}

func runRegister(cmd *cobra.Command, opts *globalOptions, ro *registerOptions) error {
	config, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if ro.mock {
		config.Registration.AllowMock = true
	}
	logger := opts.logger(config, cmd.ErrOrStderr())

	app := ro.app
	if ro.youth {
		app.MembershipType = models.MembershipYouth
	} else {
		app.MembershipType = models.MembershipGeneral
	}
	if ro.document != "" {
		data, err := os.ReadFile(ro.document)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		app.DocumentPhoto = data
		app.DocumentName = filepath.Base(ro.document)
	}

	chain := registration.NewChainFromConfig(config, logger)
	result, err := chain.Register(cmd.Context(), &app)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Message)
	if m := result.Member; m != nil {
		fmt.Fprintf(out, "Application ID: %s\n", m.ApplicationID)
		fmt.Fprintf(out, "Status:         %s\n", m.Status)
	}
	fmt.Fprintf(out, "Submitted via:  %s\n", result.Strategy)
	return nil
}
