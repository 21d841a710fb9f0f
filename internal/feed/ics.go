// Package feed renders the event window table as an iCalendar object,
// so the promotional periods behind each search string can be
// subscribed to from a calendar client.
package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/engine"
)

// Render encodes the windows as a VCALENDAR. now is stamped on every
// event as DTSTAMP (converted to UTC); the windows themselves are
// already UTC instants.
func Render(windows []engine.EventWindow, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, w := range windows {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, w.ID, config.ICalDomain))
		event.Props.SetText(config.PropSummary, w.Name)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDateTime(w.Start)
		event.Props.Set(dtStartProp)

		dtEndProp := ical.NewProp(config.PropDTEnd)
		dtEndProp.SetDateTime(w.End)
		event.Props.Set(dtEndProp)

		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}
