package events

import "github.com/atomicstack/systemctl-tui/internal/logging"

type UnitTracer struct{}

type LogTracer struct{}

var (
	Unit = UnitTracer{}
	Log  = LogTracer{}
)

func (UnitTracer) Replace(count int) {
	logging.Trace("unit.replace", map[string]interface{}{"count": count})
}

func (UnitTracer) Merge(incoming, total int) {
	logging.Trace("unit.merge", map[string]interface{}{"incoming": incoming, "total": total})
}

func (UnitTracer) Select(id string) {
	logging.Trace("unit.select", map[string]interface{}{"unit": id})
}

func (UnitTracer) FilePath(id, path, err string) {
	logging.Trace("unit.file-path", map[string]interface{}{"unit": id, "path": path, "error": err})
}

func (UnitTracer) RefreshError(err error) {
	if err == nil {
		return
	}
	logging.Trace("unit.refresh.error", map[string]interface{}{"error": err.Error()})
}

func (UnitTracer) Favorite(id string, on bool) {
	logging.Trace("unit.favorite", map[string]interface{}{"unit": id, "favorite": on})
}

func (LogTracer) Redirect(id string) {
	logging.Trace("log.redirect", map[string]interface{}{"unit": id})
}

func (LogTracer) Stale(id, current string) {
	logging.Trace("log.stale", map[string]interface{}{"unit": id, "current": current})
}

func (LogTracer) Loaded(id string, lines int) {
	logging.Trace("log.loaded", map[string]interface{}{"unit": id, "lines": lines})
}
