package dvbtext_test

import (
	"testing"

	"github.com/Saner2oo2/tv-grab-dvb-plus/pkg/dvbtext"
)

func TestProxyAPI(t *testing.T) {
	// Smoke test to ensure the proxy can be imported and types are consistent
	dec := dvbtext.NewDecoder(dvbtext.WithLogger(nil))
	_ = dec
	var _ dvbtext.Severity = dvbtext.SeverityWarning

	got, err := dvbtext.NewDecoder().ConvertText([]byte{0x01, 'o', 'k'})
	if err != nil || got != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
}
