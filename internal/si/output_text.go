package si

import (
	"fmt"
	"strings"
)

// RenderText renders a scan result as plain lines. Text fields keep their
// XML entities; the pipeline escapes exactly once and this renderer does not
// undo it.
func RenderText(results []Result) string {
	var b strings.Builder
	for _, res := range results {
		for _, svc := range res.Services {
			fmt.Fprintf(&b, "service %d: %s", svc.ServiceID, svc.Name)
			if svc.Provider != "" {
				fmt.Fprintf(&b, " (%s)", svc.Provider)
			}
			if svc.Type != "" {
				fmt.Fprintf(&b, " [%s]", svc.Type)
			}
			b.WriteByte('\n')
		}
		for _, ev := range res.Events {
			fmt.Fprintf(&b, "event %d/%d: %s", ev.ServiceID, ev.EventID, ev.Title)
			if !ev.Start.IsZero() {
				fmt.Fprintf(&b, " @ %s", ev.Start.Format("2006-01-02 15:04"))
			}
			if ev.Duration > 0 {
				fmt.Fprintf(&b, " (%s)", ev.Duration)
			}
			b.WriteByte('\n')
			if ev.Summary != "" {
				fmt.Fprintf(&b, "  %s\n", ev.Summary)
			}
		}
	}
	return b.String()
}
