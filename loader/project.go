package loader

import (
	"context"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/descriptor"
	"github.com/aedm/bitang/render"
	"golang.org/x/sync/errgroup"
)

// LoadProject loads project.ron and every chart its cuts reference,
// building a runtime Project. Charts shared by more than one cut are only
// loaded once, courtesy of the chart cache.
func (l *Loader) LoadProject(ctx context.Context) (*render.Project, error) {
	src, err := l.readFile(ctx, "project.ron")
	if err != nil {
		return nil, err
	}
	desc, err := descriptor.DecodeProject("project.ron", string(src.Content))
	if err != nil {
		return nil, err
	}

	chartIDs := uniqueChartIDs(desc.Cuts)
	charts := make([]*render.Chart, len(chartIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range chartIDs {
		i, id := i, id
		g.Go(func() error {
			c, err := l.LoadChart(gctx, id)
			if err != nil {
				return apperr.WithContext(err, id)
			}
			charts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chartsByID := make(map[string]*render.Chart, len(charts))
	for i, c := range charts {
		chartsByID[chartIDs[i]] = c
	}

	cuts := make([]render.Cut, len(desc.Cuts))
	for i, c := range desc.Cuts {
		cuts[i] = render.Cut{ChartID: c.Chart, Start: c.StartTime, End: c.EndTime, Offset: c.Offset}
	}

	return render.NewProject(chartsByID, cuts), nil
}

func uniqueChartIDs(cuts []descriptor.Cut) []string {
	seen := make(map[string]bool, len(cuts))
	var ids []string
	for _, c := range cuts {
		if !seen[c.Chart] {
			seen[c.Chart] = true
			ids = append(ids, c.Chart)
		}
	}
	return ids
}
