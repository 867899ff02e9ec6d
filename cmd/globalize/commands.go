package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-globalization"
	"github.com/spf13/cobra"
)

// inputDateLayouts are the machine formats accepted for date arguments.
var inputDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (a *app) formatDateCmd() *cobra.Command {
	var options string
	cmd := &cobra.Command{
		Use:   "format-date <value>",
		Short: "Format an RFC 3339 or YYYY-MM-DD date for a culture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := globalization.ParseOptionString(options)
			if err != nil {
				return err
			}
			value, err := a.parseInputDate(args[0])
			if err != nil {
				return err
			}
			out, err := a.config.Service().FormatDate(&value, a.culture(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&options, "options", "o", "", `format options, e.g. "date:long" or "datetime:short"`)
	return cmd
}

func (a *app) parseDateCmd() *cobra.Command {
	var options string
	cmd := &cobra.Command{
		Use:   "parse-date <text>",
		Short: "Parse localized date text and print it as RFC 3339",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := globalization.ParseOptionString(options)
			if err != nil {
				return err
			}
			value, err := a.config.Service().ParseDate(&args[0], a.culture(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVarP(&options, "options", "o", "", `format options, e.g. "date:long"`)
	return cmd
}

func (a *app) formatNumberCmd() *cobra.Command {
	var options string
	cmd := &cobra.Command{
		Use:   "format-number <value>",
		Short: "Format a number for a culture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := globalization.ParseOptionString(options)
			if err != nil {
				return err
			}
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", args[0], err)
			}
			out, err := a.config.Service().FormatNumber(&value, a.culture(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&options, "options", "o", "", `format options, e.g. "number:percent" or "currency:EUR"`)
	return cmd
}

func (a *app) parseNumberCmd() *cobra.Command {
	var options string
	cmd := &cobra.Command{
		Use:   "parse-number <text>",
		Short: "Parse localized number text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := globalization.ParseOptionString(options)
			if err != nil {
				return err
			}
			value, err := a.config.Service().ParseNumber(&args[0], a.culture(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(*value, 'f', -1, 64))
			return nil
		},
	}
	cmd.Flags().StringVarP(&options, "options", "o", "", `format options, e.g. "number:percent"`)
	return cmd
}

func (a *app) formatCurrencyCmd() *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "format-currency <value> <code>",
		Short: "Format an amount in an ISO 4217 currency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			opts := &globalization.FormatOptions{
				Currency: &globalization.CurrencyOptions{Style: style},
			}
			out, err := a.config.Service().FormatCurrency(&value, args[1], a.culture(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", globalization.CurrencySymbol, "currency display: symbol, code or name")
	return cmd
}

// convertCmd converts text with the current culture. The --culture flag
// switches the current culture for this call without persisting it.
func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "convert <string|boolean|number|date> <value>",
		Short:     "Convert text to another value kind with the current culture",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"string", "boolean", "number", "date"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if culture := a.culture(); culture != "" {
				if err := a.useCultureOnce(culture); err != nil {
					return err
				}
			}

			converter := a.config.TypeConverter()
			out := cmd.OutOrStdout()
			switch strings.ToLower(args[0]) {
			case "string":
				value, err := converter.ConvertToString(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
			case "boolean":
				value, err := converter.ConvertToBoolean(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strconv.FormatBool(value))
			case "number":
				value, err := converter.ConvertToNumber(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strconv.FormatFloat(*value, 'f', -1, 64))
			case "date":
				value, err := converter.ConvertToDate(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value.Format(time.RFC3339))
			default:
				return fmt.Errorf("unknown target %q: expected string, boolean, number or date", args[0])
			}
			return nil
		},
	}
	return cmd
}

func (a *app) cultureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "culture",
		Short: "Show or change the current culture",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current culture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.config.CultureService().CurrentCulture())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <culture>",
		Short: "Change and persist the current culture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cultures := a.config.CultureService()
			if err := cultures.SetCulture(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cultures.CurrentCulture())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the supported cultures, marking the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cultures := a.config.CultureService()
			current := cultures.CurrentCulture()
			for _, culture := range cultures.SupportedCultures() {
				marker := " "
				if culture == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, culture)
			}
			return nil
		},
	})

	return cmd
}

// useCultureOnce rebuilds the culture state on the given culture without
// writing it to the config file.
func (a *app) useCultureOnce(culture string) error {
	cfg, err := globalization.NewConfig(
		globalization.WithCultures(a.v.GetStringSlice("cultures")...),
		globalization.WithLocaleFiles(a.v.GetStringSlice("locale_files")...),
		globalization.WithLogger(a.logger),
		globalization.WithCulturePersister(fixedCulture(culture)),
	)
	if err != nil {
		return err
	}
	if !cfg.CultureService().IsSupported(culture) {
		return &globalization.UnsupportedCultureError{
			Culture:   culture,
			Supported: cfg.CultureService().SupportedCultures(),
		}
	}
	a.config = cfg
	return nil
}

func (a *app) parseInputDate(value string) (time.Time, error) {
	loc := a.config.Engine().Location()
	for _, layout := range inputDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", value)
}

// fixedCulture is a read only persister that always restores one culture.
type fixedCulture string

func (f fixedCulture) LoadCulture() (string, error) { return string(f), nil }

func (f fixedCulture) SaveCulture(string) error { return nil }
