package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/noema/dashboard/internal/domain"
	"github.com/noema/dashboard/internal/reference"
	"github.com/noema/dashboard/internal/service"
	"github.com/noema/dashboard/internal/validator"
	"github.com/spf13/cobra"
)

// errInvalidRequest is returned after field errors have been printed
var errInvalidRequest = errors.New("financing request is invalid")

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate and submit a financing request",
	Long: `Validate a financing request built from flags and POST it to the request API.

Examples:
  noema submit --first-name Ada --last-name Lovelace \
    --start 2026-11-02 --end 2028-11-02 --country "Saudi Arabia" \
    --amount 25000 --project-code ABCD-1234 \
    --description "Community solar installation"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		draft, err := draftFromFlags(cmd)
		if err != nil {
			return err
		}

		outcome, err := appInstance.RequestService.Submit(context.Background(), draft)

		var verr *service.ValidationError
		if errors.As(err, &verr) {
			printFieldErrors(out, verr.Result)
			return errInvalidRequest
		}

		fmt.Fprintf(out, "%s %s\n", outcome.Notification.Icon(), outcome.Notification.Title)
		if err != nil {
			return err
		}
		if outcome.Receipt != nil {
			fmt.Fprintf(out, "  Request ID: %s\n", outcome.Receipt.RequestID)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a financing request without submitting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		draft, err := draftFromFlags(cmd)
		if err != nil {
			return err
		}

		svc := appInstance.RequestService
		state := svc.Derive(draft)

		fmt.Fprintf(out, "Earliest start: %s\n", domain.FormatDay(state.StartFloor))
		fmt.Fprintf(out, "End window:     %s to %s\n",
			domain.FormatDay(state.EndWindow.From), domain.FormatDay(state.EndWindow.To))
		if state.Currency.Locked {
			fmt.Fprintf(out, "Currency:       locked to %s\n", state.Currency.Code)
		}
		fmt.Fprintln(out)

		result := svc.Validate(draft)
		if !result.Valid() {
			printFieldErrors(out, result)
			return errInvalidRequest
		}

		fmt.Fprintln(out, "✓ Request is valid")

		if showPayload, _ := cmd.Flags().GetBool("payload"); showPayload {
			data, err := json.MarshalIndent(domain.NewPayload(draft), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode payload: %w", err)
			}
			fmt.Fprintln(out, string(data))
		}
		return nil
	},
}

// draftFromFlags builds a draft the same way the form does: the country is
// selected first so an OPEC lock wins over any --currency value
func draftFromFlags(cmd *cobra.Command) (*domain.Draft, error) {
	flags := cmd.Flags()
	svc := appInstance.RequestService

	d := domain.NewDraft()
	d.FirstName, _ = flags.GetString("first-name")
	d.LastName, _ = flags.GetString("last-name")
	d.ProjectCode, _ = flags.GetString("project-code")
	d.ProjectDescription, _ = flags.GetString("description")
	d.Amount, _ = flags.GetFloat64("amount")

	for name, set := range map[string]func(time.Time){
		"start": d.SetStartDate,
		"end":   d.SetEndDate,
	} {
		value, _ := flags.GetString(name)
		if value == "" {
			continue
		}
		day, err := domain.ParseDay(value, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s date %q: expected %s", name, value, domain.DateLayout)
		}
		set(day)
	}

	if query, _ := flags.GetString("country"); query != "" {
		country, err := reference.FindCountry(appInstance.Catalog, query)
		if err != nil {
			return nil, fmt.Errorf("invalid --country: %w", err)
		}
		svc.SetCountry(d, country)
	}

	if code, _ := flags.GetString("currency"); code != "" {
		if !svc.SetCurrency(d, code) && code != d.Currency {
			fmt.Fprintf(cmd.ErrOrStderr(), "note: %s is required for %s, ignoring --currency %s\n",
				d.Currency, d.Country.Name, code)
		}
	}

	return d, nil
}

func printFieldErrors(w io.Writer, result validator.Result) {
	fmt.Fprintln(w, "✗ The request has errors:")
	for _, fe := range result.Errors() {
		fmt.Fprintf(w, "  %-20s %s\n", fe.Field.Label()+":", fe.Message)
	}
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("first-name", "", "Applicant first name")
	cmd.Flags().String("last-name", "", "Applicant last name")
	cmd.Flags().String("start", "", "Validity start date ("+domain.DateLayout+")")
	cmd.Flags().String("end", "", "Validity end date ("+domain.DateLayout+")")
	cmd.Flags().String("country", "", "Country code or name")
	cmd.Flags().String("currency", "", "Currency code")
	cmd.Flags().Float64("amount", 0, "Requested amount")
	cmd.Flags().String("project-code", "", "Project code, e.g. ABCD-1234")
	cmd.Flags().String("description", "", "Project description")
}

func init() {
	addRequestFlags(submitCmd)
	addRequestFlags(validateCmd)
	validateCmd.Flags().Bool("payload", false, "Print the JSON payload that would be submitted")
}
