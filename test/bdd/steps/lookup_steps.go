package steps

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
	"github.com/andrescamacho/edsm-checker-go/test/helpers"
)

const stepTimeout = 2 * time.Second

// lookupContext holds state for jump target lookup scenarios
type lookupContext struct {
	client     *helpers.MockCatalogClient
	controller *lookup.Controller
	started    <-chan string
}

func (lc *lookupContext) reset() {
	if lc.controller != nil {
		if lc.client != nil {
			lc.client.Release()
		}
		lc.controller.Stop()
	}
	lc.client = nil
	lc.controller = nil
	lc.started = nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (lc *lookupContext) aCatalogClient() error {
	lc.client = helpers.NewMockCatalogClient()
	return nil
}

func (lc *lookupContext) aRunningLookupController() error {
	lc.controller = lookup.NewController(lc.client, lookup.WithPollInterval(5*time.Millisecond))
	lc.controller.Start()
	return nil
}

func (lc *lookupContext) theCatalogResolvesToAddress(name string, address int64) error {
	lc.client.SetSystem(name, fmt.Sprintf(`{"name":%q,"id64":%d}`, name, address))
	return nil
}

func (lc *lookupContext) theCatalogReportsBodiesForAddressAs(address int64, payload *godog.DocString) error {
	lc.client.SetBodiesByAddress(address, payload.Content)
	return nil
}

func (lc *lookupContext) catalogQueriesAreHeld() error {
	lc.started = lc.client.Gate()
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (lc *lookupContext) iEnqueueTheTarget(name string) error {
	lc.controller.Enqueue(system.NewTarget(name, nil, nil))
	return nil
}

func (lc *lookupContext) iEnqueueTheTargets(names string) error {
	for _, name := range strings.Split(names, ",") {
		lc.controller.Enqueue(system.NewTarget(strings.TrimSpace(name), nil, nil))
	}
	return nil
}

func (lc *lookupContext) iEnqueueATargetWithAddressAndNoName(address int64) error {
	lc.controller.Enqueue(system.NewTarget("", &address, nil))
	return nil
}

func (lc *lookupContext) iEnqueueATargetWithNeitherNameNorAddress() error {
	lc.controller.Enqueue(system.NewTarget("", nil, nil))
	return nil
}

func (lc *lookupContext) theQueueDrains() error {
	ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
	defer cancel()
	if err := lc.controller.Drain(ctx); err != nil {
		return fmt.Errorf("queue did not drain: %w", err)
	}
	return nil
}

func (lc *lookupContext) theFirstCatalogQueryHasStarted() error {
	select {
	case <-lc.started:
		return nil
	case <-time.After(stepTimeout):
		return fmt.Errorf("no catalog query started")
	}
}

func (lc *lookupContext) iStopTheControllerWhileTheQueryIsInFlight() error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		lc.controller.Stop()
	}()

	deadline := time.Now().Add(stepTimeout)
	for lc.controller.Running() {
		if time.Now().After(deadline) {
			return fmt.Errorf("controller did not begin stopping")
		}
		time.Sleep(time.Millisecond)
	}
	// Let the exit flag land before the query returns
	time.Sleep(10 * time.Millisecond)
	lc.client.Release()

	select {
	case <-stopped:
		return nil
	case <-time.After(stepTimeout):
		return fmt.Errorf("controller did not stop")
	}
}

func (lc *lookupContext) theHostSetsTheStatusTo(status string) error {
	lc.controller.SetStatus(status)
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (lc *lookupContext) theStatusShouldBe(expected string) error {
	if actual := lc.controller.Status(); actual != expected {
		return fmt.Errorf("expected status %q, got %q", expected, actual)
	}
	return nil
}

func (lc *lookupContext) theCatalogShouldHaveBeenQueriedFor(table *godog.Table) error {
	expected := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		expected = append(expected, row.Cells[0].Value)
	}
	if actual := lc.client.Calls(); !reflect.DeepEqual(expected, actual) {
		return fmt.Errorf("expected catalog calls %v, got %v", expected, actual)
	}
	return nil
}

func (lc *lookupContext) theCatalogShouldNotHaveBeenQueried() error {
	if n := lc.client.CallCount(); n != 0 {
		return fmt.Errorf("expected no catalog calls, got %d: %v", n, lc.client.Calls())
	}
	return nil
}

func (lc *lookupContext) targetShouldStillBePending(expected int) error {
	if actual := lc.controller.Pending(); actual != expected {
		return fmt.Errorf("expected %d pending targets, got %d", expected, actual)
	}
	return nil
}

// InitializeLookupScenario registers jump target lookup steps
func InitializeLookupScenario(sc *godog.ScenarioContext) {
	lc := &lookupContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	// Setup steps
	sc.Step(`^a catalog client$`, lc.aCatalogClient)
	sc.Step(`^a running lookup controller$`, lc.aRunningLookupController)
	sc.Step(`^the catalog resolves "([^"]*)" to address (\d+)$`, lc.theCatalogResolvesToAddress)
	sc.Step(`^the catalog reports bodies for address (\d+) as:$`, lc.theCatalogReportsBodiesForAddressAs)
	sc.Step(`^catalog queries are held$`, lc.catalogQueriesAreHeld)

	// Action steps
	sc.Step(`^I enqueue the target "([^"]*)"$`, lc.iEnqueueTheTarget)
	sc.Step(`^I enqueue the targets "([^"]*)"$`, lc.iEnqueueTheTargets)
	sc.Step(`^I enqueue a target with address (\d+) and no name$`, lc.iEnqueueATargetWithAddressAndNoName)
	sc.Step(`^I enqueue a target with neither name nor address$`, lc.iEnqueueATargetWithNeitherNameNorAddress)
	sc.Step(`^the queue drains$`, lc.theQueueDrains)
	sc.Step(`^the first catalog query has started$`, lc.theFirstCatalogQueryHasStarted)
	sc.Step(`^I stop the controller while the query is in flight$`, lc.iStopTheControllerWhileTheQueryIsInFlight)
	sc.Step(`^the host sets the status to "([^"]*)"$`, lc.theHostSetsTheStatusTo)

	// Assertion steps
	sc.Step(`^the status should be "([^"]*)"$`, lc.theStatusShouldBe)
	sc.Step(`^the catalog should have been queried for:$`, lc.theCatalogShouldHaveBeenQueriedFor)
	sc.Step(`^the catalog should not have been queried$`, lc.theCatalogShouldNotHaveBeenQueried)
	sc.Step(`^(\d+) targets? should still be pending$`, lc.targetShouldStillBePending)
}
