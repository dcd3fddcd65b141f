package backup

import (
	"time"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/notify"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

const testKeyARN = "arn:aws:kms:us-west-2:123456789012:key/abc"

type testEnv struct {
	primary  *cloud.Fake
	dr       *cloud.Fake
	keys     *cloud.FakeKeys
	notifier *notify.Recorder
	orch     *Orchestrator
}

func newTestEnv() *testEnv {
	env := &testEnv{
		primary:  cloud.NewFake("us-east-1"),
		dr:       cloud.NewFake("us-west-2"),
		keys:     &cloud.FakeKeys{},
		notifier: &notify.Recorder{},
	}
	env.orch = &Orchestrator{
		Primary:       env.primary,
		DR:            env.dr,
		DRKeys:        env.keys,
		Notifier:      env.notifier,
		Logger:        telemetry.NewSlogAdapter(),
		Metrics:       telemetry.NewNoopMetrics(),
		TagKey:        "Backup",
		TagValue:      "true",
		RetentionDays: 7,
		DRKMSKeyARN:   testKeyARN,
		Wait:          cloud.WaitConfig{Interval: time.Millisecond, MaxAttempts: 3},
	}
	return env
}

func backupTags() map[string]string {
	return map[string]string{"Backup": "true"}
}
