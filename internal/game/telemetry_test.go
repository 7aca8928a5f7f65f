package game

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/samdwyer/dicerace/internal/telemetry"
)

func TestGameEmitsSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	telemetry.Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tg := newTestGame(t, 2, []int{6, 1})
	s := tg.start(t)
	mover := s.Current
	tg.roster.Players[mover].Position = 25
	tg.roster.Players[(mover+1)%2].Position = 29

	// The duel on the goal square runs before the win check.
	tg.OnDiceRolled(6)
	<-tg.Done()
	tg.Close()

	names := make(map[string]int)
	for _, span := range sr.Ended() {
		names[span.Name()]++
	}
	for _, want := range []string{"game.start", "tiles.generate", "turn.resolve", "battle.resolve"} {
		if names[want] == 0 {
			t.Errorf("no %q span recorded; got %v", want, names)
		}
	}
}
