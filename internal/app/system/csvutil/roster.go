// internal/app/system/csvutil/roster.go
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/resolve"
)

// rosterHeader matches the on-screen roster table column set, one row per
// member, with overrides already merged in.
var rosterHeader = []string{
	"Name", "Playa Name", "Email", "Status", "Role", "Dues",
	"Years Burned", "Skills", "Ticket", "Vehicle Pass",
	"Early Arrival", "Strike", "Arrival", "Departure", "City", "State",
}

// WriteRoster streams the resolved member views as CSV.
func WriteRoster(w io.Writer, members []resolve.EffectiveMember) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rosterHeader); err != nil {
		return err
	}
	for _, m := range members {
		row := []string{
			m.FullName,
			m.PlayaName,
			m.Email,
			m.EntryStatus,
			m.EntryRole,
			m.DuesStatus,
			yearsLabel(m.YearsBurned),
			strings.Join(m.Skills, "; "),
			resolve.BoolLabel(m.HasTicket),
			resolve.BoolLabel(m.HasVehiclePass),
			resolve.BoolLabel(m.InterestedInEAP),
			resolve.BoolLabel(m.InterestedInStrike),
			dateLabel(m.ArrivalDate),
			dateLabel(m.DepartureDate),
			m.City,
			m.State,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func yearsLabel(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func dateLabel(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
