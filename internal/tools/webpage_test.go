package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"unicode/utf8"

	"go.uber.org/mock/gomock"

	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const articlePage = `<html><head><title>RSI reversal</title><style>p { color: red }</style></head>
<body><script>track()</script><h1>A simple RSI reversal</h1>
<p>Buy when the   14 period RSI drops below 30.</p><p>Sell when it rises above 70.</p></body></html>`

func (suite *ToolsTestSuite) articleServer() *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/article" {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	suite.T().Cleanup(server.Close)

	return server
}

func (suite *ToolsTestSuite) TestExtractStrategyWithoutURL() {
	tool := NewExtractStrategyTool(suite.env)
	suite.False(tool.ReturnDirect())

	out, err := tool.Run(context.Background(), "read the article I liked")
	suite.Require().NoError(err)
	suite.Equal("Problem: There is no url in the content", out)
}

func (suite *ToolsTestSuite) TestExtractStrategy() {
	server := suite.articleServer()

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (*llm.Response, error) {
			prompt := req.Messages[0].Content
			suite.True(strings.HasPrefix(prompt, "Summarize the trading strategy logic mentioned in the article"))
			suite.Contains(prompt, "Buy when the 14 period RSI drops below 30.")
			suite.NotContains(prompt, "track()")
			suite.NotContains(prompt, "color: red")

			return &llm.Response{Text: " Go long below RSI 30, exit above 70. "}, nil
		})

	out, err := NewExtractStrategyTool(suite.env).Run(context.Background(), "use the logic at "+server.URL+"/article please")
	suite.Require().NoError(err)
	suite.Equal("Go long below RSI 30, exit above 70.", out)
}

func (suite *ToolsTestSuite) TestExtractStrategyNoRelevantContent() {
	server := suite.articleServer()

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(&llm.Response{Text: "Problem: no relevant information"}, nil)

	out, err := NewExtractStrategyTool(suite.env).Run(context.Background(), server.URL+"/article")
	suite.Require().NoError(err)
	suite.Equal("Problem: no relevant information", out)
}

func (suite *ToolsTestSuite) TestExtractStrategyPageMissing() {
	server := suite.articleServer()

	out, err := NewExtractStrategyTool(suite.env).Run(context.Background(), server.URL+"/missing")
	suite.Require().NoError(err)
	suite.Equal("Problem: the web page could not be loaded", out)
}

func (suite *ToolsTestSuite) TestExtractStrategyCompletionFailure() {
	server := suite.articleServer()

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(nil, errors.New(errors.ErrCodeCompletionFailed, "rate limited"))

	_, err := NewExtractStrategyTool(suite.env).Run(context.Background(), server.URL+"/article")
	suite.True(errors.HasCode(err, errors.ErrCodeCompletionFailed))
}

func (suite *ToolsTestSuite) TestSummarizeMergesChunks() {
	gomock.InOrder(
		suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "Entry on RSI below 30."}, nil),
		suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "Problem: no relevant information"}, nil),
		suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "Exit on RSI above 70."}, nil),
		suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req llm.Request) (*llm.Response, error) {
				suite.Contains(req.Messages[0].Content, "Entry on RSI below 30.\n\nExit on RSI above 70.")

				return &llm.Response{Text: "RSI reversal between 30 and 70."}, nil
			}),
	)

	out, err := NewExtractStrategyTool(suite.env).summarize(context.Background(), []string{"a", "b", "c"})
	suite.Require().NoError(err)
	suite.Equal("RSI reversal between 30 and 70.", out)
}

func (suite *ToolsTestSuite) TestPageText() {
	text, err := pageText([]byte(articlePage))
	suite.Require().NoError(err)
	suite.Equal("RSI reversal\n\nA simple RSI reversal\n\nBuy when the 14 period RSI drops below 30.\n\nSell when it rises above 70.", text)
}

func (suite *ToolsTestSuite) TestSplitText() {
	paragraphs := make([]string, 40)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat(string(rune('a'+i%26)), 99) + "。"
	}

	chunks := splitText(strings.Join(paragraphs, "\n\n"), chunkSize, chunkOverlap)
	suite.Require().Greater(len(chunks), 1)

	for i, chunk := range chunks {
		suite.LessOrEqual(utf8.RuneCountInString(chunk), chunkSize)

		if i > 0 {
			previous := strings.Split(chunks[i-1], "\n\n")
			suite.True(strings.HasPrefix(chunk, previous[len(previous)-1]), "chunk %d does not overlap", i)
		}
	}

	suite.True(strings.HasSuffix(chunks[len(chunks)-1], paragraphs[39]))
	suite.Equal([]string{"short"}, splitText("\n\nshort\n\n", chunkSize, chunkOverlap))
	suite.Empty(splitText("", chunkSize, chunkOverlap))
}
