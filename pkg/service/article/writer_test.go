package article_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/service/article"
)

func TestParseArticles(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		raw := `[{"ticket_ids":["T1","T2"],"question":"How do I log in?","answer":"<p>Use the portal.</p>","count":"2","area":"platform","sub_area":"auth"}]`

		articles := gt.R1(article.ParseArticles(raw)).NoError(t)
		gt.Array(t, articles).Length(1)

		a := articles[0]
		gt.Value(t, a.Question).Equal("How do I log in?")
		gt.Value(t, a.AnswerHTML).Equal("<p>Use the portal.</p>")
		gt.Array(t, a.TicketIDs).Equal([]string{"T1", "T2"})
		gt.Value(t, a.AreaTag).Equal("platform")
		gt.Value(t, a.SubAreaTag).Equal("auth")
		gt.Value(t, a.FullText).Equal("How do I log in?\n\nUse the portal.")
		gt.Value(t, string(a.ID)).NotEqual("")
	})

	t.Run("fenced and truncated response is repaired", func(t *testing.T) {
		raw := "```json\n" + `[{"ticket_ids":["T1"],"question":"q","answer":"<p>a</p>","count":"1"` + "\n```"

		articles := gt.R1(article.ParseArticles(raw)).NoError(t)
		gt.Array(t, articles).Length(1)
		gt.Value(t, articles[0].Question).Equal("q")
	})

	t.Run("entries without question or answer are dropped", func(t *testing.T) {
		raw := `[{"question":"","answer":"<p>a</p>"},{"question":"q","answer":"<p>a</p>","count":"1"}]`
		articles := gt.R1(article.ParseArticles(raw)).NoError(t)
		gt.Array(t, articles).Length(1)
	})

	t.Run("unparsable response fails with malformed error", func(t *testing.T) {
		_, err := article.ParseArticles("I could not generate any articles.")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrMalformedResponse)).True()
	})
}

func TestRenderPrompt(t *testing.T) {
	docs := []*model.SourceDocument{{ID: "1", Title: "Guide", BodyHTML: "<p>text</p>"}}
	tickets := []*model.Ticket{{ID: "T1", Subject: "cannot log in", Comments: "help"}}

	prompt := gt.R1(article.RenderPrompt(docs, tickets)).NoError(t)
	gt.Bool(t, strings.Contains(prompt, `"cannot log in"`)).True()
	gt.Bool(t, strings.Contains(prompt, `"Guide"`)).True()
	gt.Bool(t, strings.Contains(prompt, "<documentation>")).True()
	gt.Bool(t, strings.Contains(prompt, "<tickets>")).True()
}
