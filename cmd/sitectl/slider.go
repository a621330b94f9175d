package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonmedia/site-services/internal/slider"
)

// parseItem reads "id:kind[:length]", e.g. "intro:video:42s".
func parseItem(s string) (slider.Item, time.Duration, bool, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return slider.Item{}, 0, false, fmt.Errorf("item %q: want id:kind[:length]", s)
	}
	it := slider.Item{ID: parts[0], Kind: slider.Kind(parts[1])}
	if it.Kind != slider.KindImage && it.Kind != slider.KindVideo {
		return slider.Item{}, 0, false, fmt.Errorf("item %q: kind must be image or video", s)
	}
	if len(parts) == 3 {
		d, err := time.ParseDuration(parts[2])
		if err != nil {
			return slider.Item{}, 0, false, fmt.Errorf("item %q: %w", s, err)
		}
		return it, d, true, nil
	}
	return it, 0, false, nil
}

func newSliderCmd() *cobra.Command {
	var specs []string
	cmd := &cobra.Command{
		Use:   "slider",
		Short: "Print the advance schedule for a list of slides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(specs) == 0 {
				return fmt.Errorf("at least one --item is required")
			}
			items := make([]slider.Item, 0, len(specs))
			lengths := map[string]time.Duration{}
			for _, s := range specs {
				it, d, ok, err := parseItem(s)
				if err != nil {
					return err
				}
				items = append(items, it)
				if ok {
					lengths[it.ID] = d
				}
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tID\tKIND\tHOLD\tREVEAL")
			for _, st := range slider.Plan(items, lengths) {
				reveal := "-"
				if st.RevealAt > 0 {
					reveal = st.RevealAt.String()
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", st.Index, st.ID, st.Kind, st.Hold, reveal)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&specs, "item", nil, "slide as id:kind[:length] (repeatable)")
	return cmd
}
