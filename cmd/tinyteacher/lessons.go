package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/tinyteacher/internal/export"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/share"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
	"github.com/hyperifyio/tinyteacher/internal/source"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatPDF      = "pdf"
)

func newCreateCmd() *cobra.Command {
	var (
		text   string
		url    string
		save   bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "create [file|-]",
		Short: "Generate a lesson from text, a file or a URL",
		Long: "Generate a lesson. Pass --text, a file path (\"-\" reads stdin) or --url. " +
			"The lesson is printed; --save also stores it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := source.Request{Text: text, URL: url}
			if len(args) == 1 {
				req.Path = args[0]
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			level, _ := cmd.Flags().GetString("level")
			res, err := a.Generate(cmd.Context(), req, simplify.Level(level))
			if err != nil {
				return err
			}
			var l lesson.Lesson
			if save {
				if l, err = a.Save(cmd.Context(), res); err != nil {
					return err
				}
			} else {
				l = lesson.New(res.Input, res.Bundle, time.Now())
			}
			return printLesson(cmd.OutOrStdout(), l, format)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Source text")
	cmd.Flags().StringVar(&url, "url", "", "Source web page")
	cmd.Flags().BoolVar(&save, "save", false, "Store the lesson in the database")
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "Output format: markdown or json")
	return cmd
}

func newSimplifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simplify <id>",
		Short: "Re-simplify a saved lesson at the --level reading level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			level, _ := cmd.Flags().GetString("level")
			l, err := a.Resimplify(cmd.Context(), args[0], simplify.Level(level))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), l.Simplified)
			return err
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved lessons, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			list, err := a.Lessons(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tLEVEL\tTITLE")
			for _, l := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.ID, l.CreatedAt.Local().Format("2006-01-02 15:04"), l.ReadingLevel, l.Title)
			}
			return tw.Flush()
		},
	}
}

func newShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			l, err := a.Lesson(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printLesson(cmd.OutOrStdout(), l, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "Output format: markdown or json")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.DeleteLesson(cmd.Context(), args[0])
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a saved lesson as Markdown or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format == "md" {
				format = formatMarkdown
			}
			if format != formatMarkdown && format != formatPDF {
				return fmt.Errorf("unknown export format %q (want markdown or pdf)", format)
			}
			if format == formatPDF && output == "" {
				return errors.New("PDF export needs --output")
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if format == formatPDF {
				return a.WritePDF(cmd.Context(), args[0], w)
			}
			md, err := a.Markdown(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, md)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "Export format: markdown or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newShareCmd() *cobra.Command {
	var (
		qrPath string
		qrSize int
	)
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Print a share link for a saved lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if qrPath == "" {
				link, err := a.ShareLink(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
				return err
			}
			png, link, err := a.QRCode(cmd.Context(), args[0], qrSize)
			if err != nil {
				return err
			}
			if err := os.WriteFile(qrPath, png, 0o644); err != nil {
				return fmt.Errorf("write QR code: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}
	cmd.Flags().StringVar(&qrPath, "qr", "", "Also write the link as a QR code PNG to this file")
	cmd.Flags().IntVar(&qrSize, "qr-size", share.DefaultQRSize, "QR code size in pixels")
	return cmd
}

func newOpenCmd() *cobra.Command {
	var (
		save   bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "open <link>",
		Short: "Open a shared lesson link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !save {
				p, err := share.Decode(args[0])
				if err != nil {
					return err
				}
				return printLesson(cmd.OutOrStdout(), p.Lesson(time.Now()), format)
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			l, err := a.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printLesson(cmd.OutOrStdout(), l, format)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Store the shared lesson in the database")
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "Output format: markdown or json")
	return cmd
}

func printLesson(w io.Writer, l lesson.Lesson, format string) error {
	switch strings.ToLower(format) {
	case formatMarkdown, "md", "":
		_, err := io.WriteString(w, export.Markdown(l))
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	default:
		return fmt.Errorf("unknown output format %q (want markdown or json)", format)
	}
}
