package main

import (
	"vtopassist/cmd/vtop-cli/commands"
	"vtopassist/lib/serviceutil"
	"vtopassist/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "vtop-cli")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
