package si

import (
	"fmt"
	"strings"
)

// RenderXMLTV renders a scan result as an XMLTV document. The XML is built
// by hand rather than through encoding/xml: every text field coming out of
// the decode pipeline is already entity-escaped, and a second pass would
// double-escape it.
func RenderXMLTV(results []Result, generator string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<!DOCTYPE tv SYSTEM \"xmltv.dtd\">\n")
	fmt.Fprintf(&b, "<tv generator-info-name=%q>\n", generator)

	for _, res := range results {
		for _, svc := range res.Services {
			fmt.Fprintf(&b, "  <channel id=\"%d\">\n", svc.ServiceID)
			fmt.Fprintf(&b, "    <display-name>%s</display-name>\n", svc.Name)
			if svc.Provider != "" {
				fmt.Fprintf(&b, "    <display-name>%s</display-name>\n", svc.Provider)
			}
			b.WriteString("  </channel>\n")
		}
	}
	for _, res := range results {
		for _, ev := range res.Events {
			b.WriteString("  <programme")
			if !ev.Start.IsZero() {
				fmt.Fprintf(&b, " start=%q", ev.Start.Format("20060102150405 -0700"))
				if ev.Duration > 0 {
					fmt.Fprintf(&b, " stop=%q", ev.Start.Add(ev.Duration).Format("20060102150405 -0700"))
				}
			}
			fmt.Fprintf(&b, " channel=\"%d\">\n", ev.ServiceID)
			lang := xmltvLang(ev.Language)
			fmt.Fprintf(&b, "    <title lang=%q>%s</title>\n", lang, ev.Title)
			if ev.Summary != "" {
				fmt.Fprintf(&b, "    <desc lang=%q>%s</desc>\n", lang, ev.Summary)
			}
			b.WriteString("  </programme>\n")
		}
	}
	b.WriteString("</tv>\n")
	return b.String()
}

func xmltvLang(code string) string {
	code = strings.TrimRight(code, "\x00 ")
	if code == "" {
		return "und"
	}
	return code
}
