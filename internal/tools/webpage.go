package tools

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const (
	ExtractStrategyName = "extract_strategy"

	extractDescription = "Extract the strategy's trading logic from the web page through the url."

	noURL       = "Problem: There is no url in the content"
	noRelevant  = "Problem: no relevant information"
	unreachable = "Problem: the web page could not be loaded"

	summaryQuery = "Summarize the trading strategy logic mentioned in the article, " +
		"if the article has no trading strategy related content, then reply 'Problem: no relevant information': "

	chunkSize    = 1500
	chunkOverlap = 150

	pageTimeout   = 30 * time.Second
	pageUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var urlPattern = regexp.MustCompile(`https?://[^\s/$.?#].[^\s]*`)

// skipped elements hold no readable article text.
var skipped = map[string]bool{"script": true, "style": true, "noscript": true, "template": true, "svg": true}

// ExtractStrategyTool summarizes the trading logic of the page whose url appears in the input.
type ExtractStrategyTool struct {
	env  *Env
	http *resty.Client
}

func NewExtractStrategyTool(env *Env) *ExtractStrategyTool {
	return &ExtractStrategyTool{
		env: env,
		http: resty.New().
			SetTimeout(pageTimeout).
			SetHeader("User-Agent", pageUserAgent),
	}
}

func (t *ExtractStrategyTool) Name() string {
	return ExtractStrategyName
}

func (t *ExtractStrategyTool) Description() string {
	return extractDescription
}

func (t *ExtractStrategyTool) ReturnDirect() bool {
	return false
}

func (t *ExtractStrategyTool) Run(ctx context.Context, input string) (string, error) {
	url := urlPattern.FindString(input)
	if url == "" {
		return noURL, nil
	}

	text, err := t.fetch(ctx, url)
	if err != nil {
		if fatal(err) {
			return "", err
		}

		t.env.Logger.Warn("failed to load web page", zap.String("url", url), zap.Error(err))

		return unreachable, nil
	}

	return t.summarize(ctx, splitText(text, chunkSize, chunkOverlap))
}

func (t *ExtractStrategyTool) fetch(ctx context.Context, url string) (string, error) {
	resp, err := t.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to get %s", url)
	}

	if resp.IsError() {
		return "", errors.Newf(errors.ErrCodeMarketDataFetchFailed, "%s returned %s", url, resp.Status())
	}

	return pageText(resp.Body())
}

// summarize asks for the strategy in every chunk, then merges the answers that found one.
func (t *ExtractStrategyTool) summarize(ctx context.Context, chunks []string) (string, error) {
	var found []string

	for _, chunk := range chunks {
		answer, err := llm.Predict(ctx, t.env.Completer, summaryQuery+"\n```\n"+chunk+"\n```")
		if err != nil {
			return "", err
		}

		if answer = strings.TrimSpace(answer); answer != "" && !strings.Contains(answer, noRelevant) {
			found = append(found, answer)
		}
	}

	switch len(found) {
	case 0:
		return noRelevant, nil
	case 1:
		return found[0], nil
	}

	merged, err := llm.Predict(ctx, t.env.Completer, summaryQuery+"\n```\n"+strings.Join(found, "\n\n")+"\n```")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(merged), nil
}

// pageText returns the visible text of an HTML document, one paragraph per text node.
func pageText(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to parse web page", err)
	}

	var paragraphs []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(paragraphs, "\n\n"), nil
}

// splitText packs paragraphs into chunks of at most size runes, carrying up to overlap
// runes of trailing paragraphs into the next chunk. A paragraph longer than size is
// kept whole.
func splitText(text string, size, overlap int) []string {
	const separator = "\n\n"

	sepLen := utf8.RuneCountInString(separator)

	var (
		chunks  []string
		current []string
		total   int
	)

	for _, p := range strings.Split(text, separator) {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}

		n := utf8.RuneCountInString(p)

		if len(current) > 0 && total+sepLen+n > size {
			chunks = append(chunks, strings.Join(current, separator))

			for len(current) > 0 && (total > overlap || total+sepLen+n > size) {
				total -= utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					total -= sepLen
				}

				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepLen
		}

		current = append(current, p)
		total += n
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, separator))
	}

	return chunks
}
