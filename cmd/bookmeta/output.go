// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookmeta/pkg/types"
)

func render(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("output")
	return write(cmd.OutOrStdout(), format, v)
}

func write(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "table":
		return writeTable(w, v)
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}

func writeTable(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch r := v.(type) {
	case *types.CanonicalRecord:
		row := func(k, v string) {
			if v != "" {
				fmt.Fprintf(tw, "%s\t%s\n", k, v)
			}
		}
		row("Identifier", r.Identifier)
		row("Title", r.Title)
		row("Year", optInt(r.PublishYear))
		for _, c := range r.Creators {
			row(c.Role, c.Name)
		}
		row("Genres", strings.Join(r.Genres, ", "))
		row("Pages", optInt(r.Pages))
		row("ISBN", r.ISBN)
		for _, img := range r.RemoteImages {
			row("Image", img)
		}
		row("Source", r.SourceURL)
		if err := tw.Flush(); err != nil {
			return err
		}
		if r.Description != "" {
			fmt.Fprintf(w, "\n%s\n", r.Description)
		}
		return nil
	case *types.SearchResults:
		fmt.Fprintln(tw, "ID\tYEAR\tTITLE")
		for _, it := range r.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Identifier, optInt(it.PublishYear), it.Title)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%d items", r.Details.TotalItems)
		if r.Details.NextPage != nil {
			fmt.Fprintf(w, ", next page %d", *r.Details.NextPage)
		}
		fmt.Fprintln(w)
		return nil
	default:
		return fmt.Errorf("no table layout for %T", v)
	}
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// printMetrics writes every gathered counter as name{labels} value.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(labels)
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}
