package toasts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	first, closeFirst := hub.Register()
	second, closeSecond := hub.Register()
	defer closeFirst()
	defer closeSecond()

	assert.Equal(t, 2, hub.ClientCount())

	hub.Success("Спасибо!", "Ваш отзыв добавлен")

	for _, ch := range []<-chan []byte{first, second} {
		var toast Toast
		if err := json.Unmarshal(<-ch, &toast); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		assert.Equal(t, "success", toast.Kind)
		assert.Equal(t, "Спасибо!", toast.Title)
		assert.Equal(t, "Ваш отзыв добавлен", toast.Description)
		assert.False(t, toast.At.IsZero())
	}
}

func TestHub_ErrorKind(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	ch, deregister := hub.Register()
	defer deregister()

	hub.Error("Ошибка", "Не удалось загрузить отзывы")

	var toast Toast
	if err := json.Unmarshal(<-ch, &toast); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	assert.Equal(t, "error", toast.Kind)
}

func TestHub_DeregisteredClientReceivesNothing(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	ch, deregister := hub.Register()
	deregister()
	assert.Equal(t, 0, hub.ClientCount())

	hub.Success("title", "description")
	assert.Len(t, ch, 0)
}

func TestHub_SlowClientIsSkippedNotBlocked(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	ch, deregister := hub.Register()
	defer deregister()

	// fill the buffer and one more; broadcast must not block
	for i := 0; i <= clientBuffer; i++ {
		hub.Success("title", "description")
	}
	assert.Len(t, ch, clientBuffer)
}
