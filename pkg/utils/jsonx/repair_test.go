package jsonx_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/jsonx"
)

type qa struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func TestRepair(t *testing.T) {
	t.Run("clean JSON passes through", func(t *testing.T) {
		var out qa
		gt.NoError(t, jsonx.Repair(`{"question":"q","answer":"a"}`, &out))
		gt.Value(t, out.Question).Equal("q")
	})

	t.Run("markdown fences are stripped", func(t *testing.T) {
		raw := "Here you go:\n```json\n{\"question\":\"q\",\"answer\":\"a\"}\n```\n"
		var out qa
		gt.NoError(t, jsonx.Repair(raw, &out))
		gt.Value(t, out.Answer).Equal("a")
	})

	t.Run("truncated object is closed", func(t *testing.T) {
		var out []qa
		raw := `[{"question":"q1","answer":"a1"},{"question":"q2","answer":"a2`
		gt.NoError(t, jsonx.Repair(raw, &out))
		gt.Array(t, out).Length(2)
		gt.Value(t, out[1].Question).Equal("q2")
	})

	t.Run("no JSON at all fails", func(t *testing.T) {
		var out qa
		gt.Error(t, jsonx.Repair("sorry, I cannot answer that", &out))
	})

	t.Run("brackets inside strings are ignored", func(t *testing.T) {
		var out qa
		raw := `{"question":"use arr[0]","answer":"see {docs}"}`
		gt.NoError(t, jsonx.Repair(raw, &out))
		gt.Value(t, out.Question).Equal("use arr[0]")
	})
}
