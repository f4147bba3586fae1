package article

var (
	ParseArticles = parseArticles
	ArticleText   = articleText
	RenderPrompt  = renderPrompt
)
