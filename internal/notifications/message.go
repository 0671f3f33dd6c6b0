package notifications

import (
	"fmt"
	"strings"
	"time"
)

// Render formats an event for display. Times are shown in loc; a nil loc
// means local time.
func Render(e Event, loc *time.Location) Notification {
	if loc == nil {
		loc = time.Local
	}

	title := titleUpdated
	if e.Kind == KindStartingSoon {
		title = titleStartingSoon
	}

	timeRange := fmt.Sprintf("%s～%s",
		e.Snapshot.Start.In(loc).Format(timeLayout),
		e.Snapshot.End.In(loc).Format(timeLayout))

	var b strings.Builder
	fmt.Fprintf(&b, "ルール名：【%s】\n", e.Category)
	b.WriteString("ステージ：")
	for i, stage := range e.Snapshot.Stages {
		if i > 0 {
			b.WriteString(stageIndent)
		}
		fmt.Fprintf(&b, "【%s】\n", stage)
	}
	if len(e.Snapshot.Stages) == 0 {
		b.WriteString("【】\n")
	}
	b.WriteString(timeRange)

	return Notification{Title: title, Message: b.String()}
}
