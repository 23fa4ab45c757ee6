package location

import (
	"fmt"
	"time"

	"rollcall/models"
)

// Two events in different cities closer together than this are flagged.
const impossibleTravelWindow = time.Hour

// Alert is one advisory anomaly signal for an identity's event history.
type Alert struct {
	Rule        string
	Identity    string
	Event       *models.LocationEvent
	PairedEvent *models.LocationEvent // impossible-travel only
	GapMinutes  float64
	Detail      string
}

// AnomalyDetector scans one identity's recent events for suspicious
// patterns. It holds no state and does not touch storage; callers load
// the events and persist or deliver the alerts.
type AnomalyDetector struct{}

// Scan applies both rules to events, which must all belong to identity
// and be ordered by timestamp descending.
//
// The travel rule compares city-level identity only, not physical travel
// speed: a commuter whose IP resolves to two neighboring cities within an
// hour will trip it. That is an accepted limitation; alerts exist to flag
// events for human review, never to block them.
func (d AnomalyDetector) Scan(identity string, events []models.LocationEvent) []Alert {
	var alerts []Alert

	for i := range events {
		event := &events[i]

		if geo := event.Geolocation; geo != nil {
			if geo.IsProxy {
				alerts = append(alerts, Alert{
					Rule:     models.AlertProxyVPN,
					Identity: identity,
					Event:    event,
					Detail:   fmt.Sprintf("Event from proxy/VPN network %s (%s)", event.IPAddress, geo.ISP),
				})
			}
			if geo.IsHosting {
				alerts = append(alerts, Alert{
					Rule:     models.AlertDatacenterIP,
					Identity: identity,
					Event:    event,
					Detail:   fmt.Sprintf("Event from datacenter IP %s (%s)", event.IPAddress, geo.Org),
				})
			}
		}

		if i+1 >= len(events) {
			continue
		}
		previous := &events[i+1]
		if event.Geolocation == nil || previous.Geolocation == nil {
			continue
		}
		city, prevCity := event.Geolocation.City, previous.Geolocation.City
		if city == "" || prevCity == "" || city == prevCity {
			continue
		}
		gap := event.Timestamp.Sub(previous.Timestamp)
		if gap < 0 || gap >= impossibleTravelWindow {
			continue
		}
		alerts = append(alerts, Alert{
			Rule:        models.AlertImpossibleTravel,
			Identity:    identity,
			Event:       event,
			PairedEvent: previous,
			GapMinutes:  gap.Minutes(),
			Detail:      fmt.Sprintf("%s to %s in %.0f minutes", prevCity, city, gap.Minutes()),
		})
	}

	return alerts
}
