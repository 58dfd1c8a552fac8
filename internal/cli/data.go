package cli

import (
	"errors"
	"fmt"
	"time"

	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
	"finca-digital/internal/domain/reports"

	"github.com/spf13/cobra"
)

func init() {
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Borra animales, registros y sanidad (fincas y usuarios se conservan)",
		RunE:  runReset,
	}
	reset.Flags().String("farm", "", "Limitar a una finca (default: todas)")
	reset.Flags().Bool("yes", false, "Confirmar la limpieza")

	report := &cobra.Command{
		Use:   "report",
		Short: "Imprime el reporte de una finca",
		RunE:  runReport,
	}
	report.Flags().String("farm", "", "Nombre de la finca (requerido)")
	report.Flags().String("freq", string(reports.Weekly), "diario | semanal | quincenal | mensual")
	report.Flags().String("from", "", "Fecha inicial YYYY-MM-DD (con --to ignora --freq)")
	report.Flags().String("to", "", "Fecha final YYYY-MM-DD")
	_ = report.MarkFlagRequired("farm")

	RootCmd.AddCommand(reset, report)
}

func runReset(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("farm")
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return errors.New("refusing to reset without --yes")
	}

	s, _, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	farmID := ""
	if name != "" {
		f, err := farms.NewService(s.Farms).GetByName(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("farm %q: %w", name, err)
		}
		farmID = f.ID
	}
	if err := s.Reset(cmd.Context(), farmID); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Base de datos limpiada. Todo listo para empezar de nuevo.")
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("farm")
	freq, _ := cmd.Flags().GetString("freq")
	fromRaw, _ := cmd.Flags().GetString("from")
	toRaw, _ := cmd.Flags().GetString("to")

	rng := reports.ForFrequency(reports.Frequency(freq), time.Now())
	if fromRaw != "" && toRaw != "" {
		from, err := time.Parse(time.DateOnly, fromRaw)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		to, err := time.Parse(time.DateOnly, toRaw)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		rng = reports.Between(from, to)
	}

	s, _, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := farms.NewService(s.Farms).GetByName(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("farm %q: %w", name, err)
	}
	text, err := reports.NewService(records.NewService(s.Records)).Generate(cmd.Context(), f.ID, rng)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
