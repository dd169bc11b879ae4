package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/aqi-insight/internal/domain/view"
)

func (s *service) fetchReports(ctx context.Context, _ struct{}) (Reports, error) {
	var ongoing, emergency, active any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ongoing, err = s.backend.OngoingInterventions(gctx)
		return err
	})
	g.Go(func() (err error) {
		emergency, err = s.backend.EmergencyResponse(gctx)
		return err
	})
	g.Go(func() error {
		// Alerts are optional on this screen; a failed read shows no alerts.
		var err error
		active, err = s.backend.ActiveAlerts(gctx)
		if err != nil {
			if gctx.Err() == nil {
				s.logger.Warn("active alerts unavailable", "error", err)
			}
			active = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Reports{}, err
	}

	out := Reports{
		Ongoing:   interventions(ongoing),
		Emergency: emergencyActions(emergency),
		Alerts:    alerts(active),
	}
	presentReports(&out)
	return out, nil
}

func presentReports(r *Reports) {
	r.OngoingTable = view.Table{Title: "Ongoing Interventions", Columns: []string{"Measure", "Status", "Expected Impact"}}
	for _, item := range r.Ongoing {
		r.OngoingTable.AddRow(view.Text(item.Name), item.Status, view.Text(item.ExpectedImpact))
	}

	r.EmergencyView = view.Table{Title: "Emergency Actions", Columns: []string{"Action", "Trigger", "Notes"}}
	for _, item := range r.Emergency {
		r.EmergencyView.AddRow(view.Text(item.Action), view.Text(item.Trigger), view.Text(item.Notes))
	}

	r.AlertsTable = view.Table{Title: "Active Alerts", Columns: []string{"Type", "Severity", "Message"}, Empty: "No active alerts."}
	for _, item := range r.Alerts {
		r.AlertsTable.AddRow(item.Type, item.Severity, item.Message)
	}
}
