// Package logging provides the runtime's tagged, leveled log output.
//
// Every recoverable failure in OxideKit is logged with a severity and a
// category label (EVENT, STATE, NAV, CALL, HANDLER, UPDATE, WARN, DEV — see
// SPEC_FULL.md §8). This package wraps logrus with per-category entries so
// call sites read as `logging.Category("STATE").Warnf(...)` and the dev
// overlay can subscribe to every line via a logrus.Hook without coupling to
// any particular category.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Categories recognised by SPEC_FULL.md §8. A category outside this set is
// still logged (categories are labels, not an enum).
const (
	CategoryEvent   = "EVENT"
	CategoryState   = "STATE"
	CategoryNav     = "NAV"
	CategoryCall    = "CALL"
	CategoryHandler = "HANDLER"
	CategoryUpdate  = "UPDATE"
	CategoryWarn    = "WARN"
	CategoryDev     = "DEV"
)

var (
	base = logrus.New()

	mu         sync.Mutex
	categories = map[string]bool{}
)

func init() {
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	configureFromEnv()
}

// configureFromEnv mirrors the teacher's MAYA_LOG_LEVEL / MAYA_LOG_CATEGORIES
// convention, renamed to the OXIDEKIT_ prefix.
func configureFromEnv() {
	switch strings.ToLower(os.Getenv("OXIDEKIT_LOG_LEVEL")) {
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "info":
		base.SetLevel(logrus.InfoLevel)
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "trace":
		base.SetLevel(logrus.TraceLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	if catStr := os.Getenv("OXIDEKIT_LOG_CATEGORIES"); catStr != "" {
		mu.Lock()
		for _, cat := range strings.Split(catStr, ",") {
			cat = strings.TrimSpace(strings.ToUpper(cat))
			if cat != "" {
				categories[cat] = true
			}
		}
		mu.Unlock()
	}
}

// Category returns a logrus.Entry tagged with the given category label.
// When OXIDEKIT_LOG_CATEGORIES is set, entries for categories not in that
// allowlist are silenced regardless of level.
func Category(name string) *logrus.Entry {
	mu.Lock()
	allowed := len(categories) == 0 || categories[name]
	mu.Unlock()

	entry := base.WithField("category", name)
	if !allowed {
		silent := logrus.New()
		silent.SetOutput(nil)
		silent.SetLevel(logrus.PanicLevel + 1) // FatalLevel: only fatal and panic entries pass
		return silent.WithField("category", name)
	}
	return entry
}

// Hook lets the dev overlay (internal/app) observe every emitted line
// without the logger depending on the overlay.
type Hook interface {
	Fire(category, level, message string)
}

type hookAdapter struct{ h Hook }

func (a hookAdapter) Levels() []logrus.Level { return logrus.AllLevels }

func (a hookAdapter) Fire(e *logrus.Entry) error {
	category, _ := e.Data["category"].(string)
	a.h.Fire(category, e.Level.String(), e.Message)
	return nil
}

// AddHook registers a Hook to receive every log line (used by the dev
// overlay's ring buffer).
func AddHook(h Hook) {
	base.AddHook(hookAdapter{h: h})
}
