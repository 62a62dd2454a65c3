package transit

import (
	"context"
	"fmt"

	onebusaway "github.com/OneBusAway/go-sdk"
	"github.com/OneBusAway/go-sdk/option"
	"wayfare.openmobility.org/internal/metrics"
	"wayfare.openmobility.org/internal/report"
	"wayfare.openmobility.org/internal/utils"
)

// PingUpstream checks whether the OneBusAway server backing the transit feed
// is reachable, and records the result in the TransitSourceStatus gauge. It
// is a no-op for deployments that poll a bare GTFS-RT endpoint with no OBA
// server configured.
func (fs *FeedService) PingUpstream(ctx context.Context) {
	if fs.Cfg.ObaBaseURL == "" {
		return
	}

	client := onebusaway.NewClient(
		option.WithAPIKey(fs.Cfg.ObaApiKey),
		option.WithBaseURL(fs.Cfg.ObaBaseURL),
	)

	response, err := client.CurrentTime.Get(ctx)
	if err != nil {
		err := fmt.Errorf("failed to ping transit data server %s: %v", fs.Cfg.ObaBaseURL, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("oba_base_url", fs.Cfg.ObaBaseURL),
		})
		metrics.TransitSourceStatus.WithLabelValues(fs.Cfg.ObaBaseURL).Set(0)
		return
	}

	if response.Data.Entry.ReadableTime != "" {
		metrics.TransitSourceStatus.WithLabelValues(fs.Cfg.ObaBaseURL).Set(1)
	} else {
		metrics.TransitSourceStatus.WithLabelValues(fs.Cfg.ObaBaseURL).Set(0)
	}
}
