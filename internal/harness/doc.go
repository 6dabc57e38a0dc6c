// Package harness runs scripted scenarios against a reactive object and
// records a deterministic trace of store writes and emitted events.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	backend: memory            # or sqlite
//	seed:
//	  durable: { version: '"1.9"' }
//	  session: { colorScheme: '"dark"' }
//	declare:
//	  - { kind: persist, name: version, value: "" }
//	  - { kind: cookie, name: colorScheme, value: auto, lazy: true }
//	steps:
//	  - update: { version: "2.0" }
//	  - flush: true
//	  - emit: ping
//	    args: [a, 1]
//	  - read: version
//	expect:
//	  events:
//	    - { version: true }
//	  values: { version: "2.0" }
//	  durable: { version: '"2.0"' }
//
// Seed and store expectations hold raw JSON documents. A null store
// expectation asserts the key was never written.
//
// # Deterministic Testing
//
// Scenarios run on a manually drained loop with a fixed instance id, so
// traces are identical across runs and can be compared against golden files
// in testdata/golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/version_persist.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
