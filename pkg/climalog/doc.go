// Package climalog provides an embeddable logger for a serial
// temperature/humidity sensor.
//
// A Monitor polls the sensor every PollInterval, parses frames of the form
// "t<temperature>,h<humidity>;", keeps the latest reading on a terminal
// display and appends readings to a CSV file in sorted, deduplicated
// batches of BatchCapacity.
//
// # Basic Usage
//
//	cfg := climalog.DefaultConfig()
//	cfg.StoragePath = "temp_hum.csv"
//
//	m, err := climalog.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err) // device could not be opened
//	}
//	<-m.Done()
//	if err := m.Err(); err != nil {
//	    log.Fatal(err) // storage file disappeared
//	}
//
// [Run] wraps the same sequence and blocks until ctx is canceled.
//
// # Storage
//
// The CSV file must exist before the first flush; it is never created
// implicitly. A missing file at flush time stops the Monitor with an
// error wrapping [ErrStorageMissing].
//
// # Dependency Injection
//
// For testing, the device, display, batch writer and clock can be replaced:
//
//	m, err := climalog.New(cfg,
//	    climalog.WithDevice(fakeDevice),
//	    climalog.WithBatchWriter(recorder),
//	    climalog.WithClock(fixedClock),
//	)
//
// # Lifecycle States
//
// A Monitor can be in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping], or [StateCrashed]. Use [Monitor.Status]
// to query the current state.
package climalog
