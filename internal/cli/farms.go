package cli

import (
	"fmt"
	"time"

	"finca-digital/internal/adapters/messaging/twilio"
	"finca-digital/internal/domain/farms"

	"github.com/spf13/cobra"
)

func init() {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Crea las tablas que falten",
		RunE:  runMigrate,
	}

	activate := &cobra.Command{
		Use:   "activate",
		Short: "Activa la suscripción de una finca y registra sus empleados",
		RunE:  runActivate,
	}
	activate.Flags().String("farm", "", "Nombre de la finca (requerido)")
	activate.Flags().String("until", "", "Vencimiento YYYY-MM-DD (default: en 30 días)")
	activate.Flags().StringSlice("worker", nil, "Número de WhatsApp de un empleado (repetible, máximo 3)")
	activate.Flags().Bool("notify", false, "Avisar al dueño por WhatsApp (requiere TWILIO_*)")
	_ = activate.MarkFlagRequired("farm")

	deactivate := &cobra.Command{
		Use:   "deactivate",
		Short: "Suspende la suscripción de una finca",
		RunE:  runDeactivate,
	}
	deactivate.Flags().String("farm", "", "Nombre de la finca (requerido)")
	_ = deactivate.MarkFlagRequired("farm")

	RootCmd.AddCommand(migrate, activate, deactivate)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	s, _, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Esquema al día (%s)\n", s.Dialect)
	return nil
}

func runActivate(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("farm")
	untilRaw, _ := cmd.Flags().GetString("until")
	workers, _ := cmd.Flags().GetStringSlice("worker")
	notify, _ := cmd.Flags().GetBool("notify")

	until := time.Now().AddDate(0, 0, 30)
	if untilRaw != "" {
		t, err := time.Parse(time.DateOnly, untilRaw)
		if err != nil {
			return fmt.Errorf("--until must be YYYY-MM-DD: %w", err)
		}
		until = t
	}

	s, cfg, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := farms.NewService(s.Farms).Activate(cmd.Context(), farms.ActivateInput{
		FarmName: name,
		Until:    until,
		Workers:  workers,
	})
	if err != nil {
		return fmt.Errorf("activate %q: %w", name, err)
	}

	expiry := until
	if f.SubscriptionExpiry != nil {
		expiry = *f.SubscriptionExpiry
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Finca '%s' activa hasta %s\n", f.Name, expiry.Format(time.DateOnly))
	fmt.Fprintf(out, "🔑 Clave del tablero: %s\n", f.AccessKey)

	if !notify {
		return nil
	}
	n, err := twilio.New(twilio.Options{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		From:       cfg.Twilio.From,
		BaseURL:    cfg.Twilio.BaseURL,
	}, nil)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("✅ ¡Tu finca '%s' está activa hasta el %s!\n🔑 Clave del tablero: %s",
		f.Name, expiry.Format("02/01/2006"), f.AccessKey)
	sid, err := n.Send(cmd.Context(), f.OwnerPhone, msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "📲 Aviso enviado al dueño (%s)\n", sid)
	return nil
}

func runDeactivate(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("farm")
	s, _, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := farms.NewService(s.Farms).Deactivate(cmd.Context(), name); err != nil {
		return fmt.Errorf("deactivate %q: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🔒 Finca '%s' suspendida\n", name)
	return nil
}
