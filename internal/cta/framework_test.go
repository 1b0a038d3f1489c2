package cta

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/cta/database"
	"github.com/rxtech-lab/argo-agent/internal/cta/strategy"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

type FrameworkTestSuite struct {
	suite.Suite
	root      string
	out       *bytes.Buffer
	framework *Framework
}

func TestFrameworkSuite(t *testing.T) {
	suite.Run(t, new(FrameworkTestSuite))
}

func (suite *FrameworkTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.out = &bytes.Buffer{}
	suite.framework = NewFramework(suite.root, &fakeSource{}, console.NewPrinter(suite.out), logger.NewNopLogger())
}

func (suite *FrameworkTestSuite) interview(defaults session.Settings, answers ...string) (*Settings, error) {
	prompter := console.NewReaderPrompter(strings.NewReader(strings.Join(answers, "\n")+"\n"), suite.out)

	s, err := suite.framework.Interview(context.Background(), prompter, defaults)
	if err != nil {
		return nil, err
	}

	return s.(*Settings), nil
}

func (suite *FrameworkTestSuite) TestInterviewDefaults() {
	s, err := suite.interview(suite.framework.Defaults(), "", "", "", "")
	suite.Require().NoError(err)
	suite.Equal(DefaultSettings(), s)

	out := suite.out.String()
	suite.Contains(out, "There are 6 futures exchanges:")
	suite.Contains(out, "中国金融期货交易所")
	suite.Contains(out, "Supported intervals: 1m, 5m, 15m, 30m, 1h, 1d")
	suite.Contains(out, "1. Futures contract with exchange name, eg: IF2309.CFFEX, rb2310.SHFE(default: IF2309.CFFEX): ")
	suite.Contains(out, "4. Whether to enable simulated transaction mode(true/false, default `true`): ")
	suite.Less(strings.Index(out, "There are 6"), strings.Index(out, "1. Futures contract"))
	suite.Less(strings.Index(out, "Supported intervals"), strings.Index(out, "2. Which interval"))
}

func (suite *FrameworkTestSuite) TestInterviewAnswers() {
	s, err := suite.interview(nil, " rb2310.SHFE ", "15m", "20230201-20230301", "FALSE")
	suite.Require().NoError(err)

	suite.Equal("rb2310.SHFE", s.VtSymbol)
	suite.Equal("15m", s.Interval)
	suite.Equal("20230201-20230301", s.Timerange)
	suite.False(s.DryRun)
}

func (suite *FrameworkTestSuite) TestInterviewUsesPreviousAnswersAsDefaults() {
	previous := &Settings{VtSymbol: "au2312.SHFE", Interval: "1d", Timerange: "20220101-", DryRun: false}

	s, err := suite.interview(previous, "", "", "", "")
	suite.Require().NoError(err)
	suite.Equal(previous, s)
	suite.Contains(suite.out.String(), "(default: au2312.SHFE)")
}

func (suite *FrameworkTestSuite) TestInterviewEOF() {
	_, err := suite.interview(nil, "IF2309.CFFEX")
	suite.Require().Error(err)
}

func (suite *FrameworkTestSuite) TestOpen() {
	sess, err := suite.framework.Open(context.Background(), DefaultSettings())
	suite.Require().NoError(err)
	defer sess.(*Session).Close()

	suite.Equal(session.KindVnpy, sess.Kind())

	_, err = os.Stat(filepath.Join(suite.root, "strategies", strategy.BuiltinFile))
	suite.NoError(err)

	_, err = os.Stat(filepath.Join(suite.root, "data", database.FileName))
	suite.NoError(err)
}

func (suite *FrameworkTestSuite) TestOpenUnknownProduct() {
	_, err := suite.framework.Open(context.Background(), &Settings{VtSymbol: "zz2309.CFFEX", Interval: "1m", Timerange: "20230101-"})
	suite.True(errors.IsConfigurationError(err))
}

func (suite *FrameworkTestSuite) TestParseAndRetry() {
	s, err := suite.framework.Parse(validBlock)
	suite.Require().NoError(err)
	suite.Equal("rb2310.SHFE", s.(*Settings).VtSymbol)
	suite.Contains(suite.framework.RetryMessage(), "vt_symbol, interval, and timerange")
}
