package observability_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lexfsm/internal/logging"
	"github.com/aretw0/lexfsm/internal/runtime"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/dsl"
	"github.com/aretw0/lexfsm/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chained(t *testing.T) *domain.Definition {
	t.Helper()
	b := dsl.New("chained", "a")
	b.Add("start").On("a", "hop")
	b.Add("hop").Chain("end").Do("note")
	b.Add("end").On("a", "hop").Do("stop")
	def, err := b.Build()
	require.NoError(t, err)
	return def
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	engine := runtime.NewEngine(chained(t), runtime.WithLifecycleHooks(m.Hooks()))

	cursor := engine.Start()
	ok := engine.Next(&cursor, 0, domain.HandlerFunc(func(_, _ int, cb string) bool {
		return cb != "stop"
	}))
	assert.False(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatesEntered.WithLabelValues("chained", "hop", string(domain.PhaseLanding))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatesEntered.WithLabelValues("chained", "end", string(domain.PhasePostChain))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Stops.WithLabelValues("chained", "end", "stop")))
}

func TestMetrics_ObserveLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveLoad("a.fsm", 2*time.Millisecond, nil)
	m.ObserveLoad("a.fsm", time.Millisecond, errors.New("boom"))
	m.ObserveToken("a.fsm", "WORD")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues("a.fsm", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues("a.fsm", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tokens.WithLabelValues("a.fsm", "WORD")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LoadDuration))

	expected := `
# HELP lexfsm_description_loads_total Total number of description loads
# TYPE lexfsm_description_loads_total counter
lexfsm_description_loads_total{definition="a.fsm",result="error"} 1
lexfsm_description_loads_total{definition="a.fsm",result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "lexfsm_description_loads_total"))
}

func TestNewMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	second, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, first.Loads, second.Loads, "existing collectors are reused")
}

func TestCombine(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)

	var entered []string
	counting := domain.LifecycleHooks{
		OnEnter: func(e domain.StateEvent) { entered = append(entered, e.StateName) },
	}

	hooks := observability.Combine(counting, observability.LoggingHooks(logger), domain.LifecycleHooks{})
	engine := runtime.NewEngine(chained(t), runtime.WithLifecycleHooks(hooks))

	cursor := engine.Start()
	engine.Next(&cursor, 0, domain.HandlerFunc(func(_, _ int, cb string) bool { return cb != "stop" }))

	assert.Equal(t, []string{"hop", "end"}, entered)
	out := buf.String()
	assert.Contains(t, out, "state_enter")
	assert.Contains(t, out, "traversal_stop")
	assert.Contains(t, out, "callback=stop")

	empty := observability.Combine()
	assert.Nil(t, empty.OnEnter)
	assert.Nil(t, empty.OnStop)
}
