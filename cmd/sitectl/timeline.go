package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyonmedia/site-services/internal/pagesession"
	"github.com/halcyonmedia/site-services/internal/timeline"
)

func newTimelineCmd() *cobra.Command {
	var p float64
	var steps int
	cmd := &cobra.Command{
		Use:   "timeline [NAME]",
		Short: "List timeline presets or evaluate one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, n := range timeline.PresetNames() {
					fmt.Fprintln(out, n)
				}
				return nil
			}
			tl, ok := timeline.Presets()[args[0]]
			if !ok {
				return fmt.Errorf("unknown timeline %q", args[0])
			}
			sess := pagesession.New()
			defer sess.Close()
			seq, err := timeline.New(tl)
			if err != nil {
				return err
			}
			if err := sess.Own(seq); err != nil {
				return err
			}

			points := []float64{p}
			if steps > 1 {
				points = make([]float64, steps)
				for i := range points {
					points[i] = tl.Length * float64(i) / float64(steps-1)
				}
			}

			enc := json.NewEncoder(out)
			var encErr error
			n := 0
			if steps > 1 {
				seq.Subscribe(func(st timeline.State) {
					if encErr == nil {
						encErr = enc.Encode(map[string]interface{}{"p": points[n], "state": st})
					}
					n++
				})
			}

			progress := make(chan float64, len(points))
			for _, at := range points {
				progress <- at
			}
			close(progress)
			if err := seq.Run(cmd.Context(), progress); err != nil {
				return err
			}
			if encErr != nil || steps > 1 {
				return encErr
			}
			return enc.Encode(map[string]interface{}{"p": p, "state": seq.Last()})
		},
	}
	cmd.Flags().Float64Var(&p, "p", 0, "progress value")
	cmd.Flags().IntVar(&steps, "steps", 0, "sample the whole timeline at N evenly spaced points")
	return cmd
}
