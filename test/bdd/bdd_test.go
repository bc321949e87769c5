package bdd

import (
	"testing"

	"github.com/cucumber/godog"
	"go.uber.org/goleak"

	"github.com/andrescamacho/edsm-checker-go/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/lookup", "features/logging"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener per pool
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeLookupScenario(sc)
	steps.InitializeLookupLoggingScenario(sc)
}
