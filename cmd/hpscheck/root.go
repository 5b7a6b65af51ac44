package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Hitchyard/internal/config"
	"github.com/MikeSquared-Agency/Hitchyard/internal/scoring"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

type scoreFlags struct {
	variant     string
	pallets     int
	origin      string
	destination string
	reliability int
	weight      float64
	payout      string
	commodity   string
	email       string
	asJSON      bool
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "hpscheck",
		Short:         "Hitchyard Performance Score checker",
		Long:          "hpscheck validates and scores a load against the configured landing-page variants.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	loadEngine := func() (*scoring.Engine, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		reg, err := scoring.RegistryFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return scoring.NewEngine(reg, slog.New(slog.NewTextHandler(io.Discard, nil))), nil
	}

	root.AddCommand(newScoreCmd(loadEngine), newVariantsCmd(loadEngine))
	return root
}

func newScoreCmd(loadEngine func() (*scoring.Engine, error)) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one load",
		Example: `  hpscheck score --pallets 4 --zip 84101
  hpscheck score --variant lane-match --pallets 12 --zip 84101 --dest 84601`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			return runScore(cmd.OutOrStdout(), cmd.ErrOrStderr(), engine, req, f.asJSON)
		},
	}

	cmd.Flags().StringVarP(&f.variant, "variant", "V", "", "variant profile (default from config)")
	cmd.Flags().IntVarP(&f.pallets, "pallets", "p", 0, "pallet count")
	cmd.Flags().StringVarP(&f.origin, "zip", "z", "", "origin postal code")
	cmd.Flags().StringVar(&f.destination, "dest", "", "destination postal code")
	cmd.Flags().IntVar(&f.reliability, "reliability", 0, "reported on-time percentage (0-100)")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "shipment weight in lbs")
	cmd.Flags().StringVar(&f.payout, "payout", "", "offered payout in dollars")
	cmd.Flags().StringVar(&f.commodity, "commodity", "", "commodity category")
	cmd.Flags().StringVar(&f.email, "email", "", "contact email, for variants that require one")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	return cmd
}

// request leaves a field nil unless its flag was set, so the validator can
// tell an omitted value from an explicit zero.
func (f *scoreFlags) request(cmd *cobra.Command) (*shipment.Request, error) {
	req := &shipment.Request{
		Variant:        f.variant,
		OriginZip:      f.origin,
		DestinationZip: f.destination,
		Commodity:      shipment.Commodity(f.commodity),
		Email:          f.email,
	}
	flags := cmd.Flags()
	if flags.Changed("pallets") {
		req.PalletCount = &f.pallets
	}
	if flags.Changed("reliability") {
		req.Reliability = &f.reliability
	}
	if flags.Changed("weight") {
		req.WeightLbs = &f.weight
	}
	if f.payout != "" {
		d, err := decimal.NewFromString(f.payout)
		if err != nil {
			return nil, fmt.Errorf("invalid --payout %q: %w", f.payout, err)
		}
		req.Payout = &d
	}
	return req, nil
}

func runScore(w, errW io.Writer, engine *scoring.Engine, req *shipment.Request, asJSON bool) error {
	result, err := engine.ComputeScore(req)
	if err != nil {
		var verr *shipment.ValidationError
		if errors.As(err, &verr) {
			if asJSON {
				writeJSON(w, map[string]string{"error": verr.Error(), "field": verr.Field})
			} else {
				fmt.Fprintln(errW, renderRejection(verr))
			}
		}
		return err
	}
	if asJSON {
		return writeJSON(w, result)
	}
	fmt.Fprintln(w, renderResult(result))
	return nil
}

func newVariantsCmd(loadEngine func() (*scoring.Engine, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List configured variant profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}
			reg := engine.Registry()
			fmt.Fprintln(cmd.OutOrStdout(), renderVariants(reg.List(), reg.Default()))
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
