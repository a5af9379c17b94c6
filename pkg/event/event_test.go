package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFirePayloadReturnsPassWhenNoHandlers(t *testing.T) {
	m := New(zap.NewNop())
	v := m.FirePayload("nothing.subscribed", nil)
	assert.True(t, v.IsPass())
}

func TestFirePayloadStopsAtFirstNonPass(t *testing.T) {
	m := New(zap.NewNop())
	var order []int

	m.Subscribe(PlayerChatbox, 10, func(map[string]interface{}) Verdict {
		order = append(order, 10)
		return Pass()
	})
	m.Subscribe(PlayerChatbox, 20, func(map[string]interface{}) Verdict {
		order = append(order, 20)
		return Drop()
	})
	m.Subscribe(PlayerChatbox, 0, func(map[string]interface{}) Verdict {
		order = append(order, 0)
		return Pass()
	})

	v := m.FirePayload(PlayerChatbox, map[string]interface{}{"message": "hi"})
	assert.True(t, v.IsDrop())
	assert.Equal(t, []int{20}, order, "handlers run highest priority first and stop once a verdict is non-Pass")
}

func TestReplaceJSONAndReplaceTextCarryPayload(t *testing.T) {
	j := ReplaceJSON(map[string]interface{}{"text": "hello"})
	assert.True(t, j.IsReplaceJSON())
	assert.Equal(t, "hello", j.JSON()["text"])

	txt := ReplaceText("hello")
	assert.True(t, txt.IsReplaceText())
	assert.Equal(t, "hello", txt.Text())
}

func TestCallHandlerRecoversPanic(t *testing.T) {
	m := New(zap.NewNop())
	m.Subscribe(PlayerDig, 0, func(map[string]interface{}) Verdict {
		panic("boom")
	})
	v := m.FirePayload(PlayerDig, nil)
	assert.True(t, v.IsPass(), "a panicking handler is treated as no verdict, not a crash")
}

type fakeGenericEvent struct{ name string }

func (e fakeGenericEvent) Name() string { return e.name }

func TestFireRunsGenericHandlersSynchronously(t *testing.T) {
	m := New(zap.NewNop())
	var called bool
	m.SubscribeGeneric("disconnect", 0, func(GenericEvent) { called = true })
	m.Fire(fakeGenericEvent{name: "disconnect"})
	assert.True(t, called)
}

func TestFireParallelRunsAllHandlersConcurrently(t *testing.T) {
	m := New(zap.NewNop())
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		m.SubscribeGeneric("parallel.event", 0, func(GenericEvent) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	done := make(chan struct{})
	m.FireParallel(fakeGenericEvent{name: "parallel.event"}, func(GenericEvent) { close(done) })
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}

func TestGenericHandlerPanicIsRecovered(t *testing.T) {
	m := New(zap.NewNop())
	m.SubscribeGeneric("panicky", 0, func(GenericEvent) { panic("boom") })
	assert.NotPanics(t, func() { m.Fire(fakeGenericEvent{name: "panicky"}) })
}
