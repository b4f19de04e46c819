package main

import (
	"context"
	"fmt"
	"log"

	"github.com/vsinha/firemarshal/pkg/firemarshal"
)

func main() {
	ctx := context.Background()

	// A lander with two engines firing together
	engines := []firemarshal.Engine{
		{Name: "LV-T45 Swivel", ThrustKN: 200, ImpulseS: 300},
		{Name: "LV-909 Terrier", ThrustKN: 60, ImpulseS: 345},
	}

	perf, err := firemarshal.Combine(engines...)
	if err != nil {
		log.Fatalf("Failed to combine engines: %v", err)
	}
	fmt.Printf("Combined thrust %.1f kN, Isp %.2f s\n", perf.ThrustKN, perf.ImpulseS)

	result, err := firemarshal.Burn(1000, 10, 4, engines...)
	if err != nil {
		log.Fatalf("Burn failed: %v", err)
	}
	fmt.Printf("Burn time %.2f s, fuel used %.3f Mg, fuel left %.3f Mg\n",
		result.BurnTime, result.FuelExpended, result.FuelFinal)

	// Same burn through the planner, which adds warnings and advisories
	planner, err := firemarshal.NewPlanner("")
	if err != nil {
		log.Fatalf("Failed to create planner: %v", err)
	}

	report, err := planner.Plan(ctx, firemarshal.BurnRequest{
		VelocityDelta: 2500,
		Vehicle:       firemarshal.VehicleState{MassInitial: 10, FuelInitial: 4},
		Engines:       engines,
	})
	if err != nil {
		log.Fatalf("Plan failed: %v", err)
	}

	for _, w := range report.Warnings {
		fmt.Printf("WARNING: %s\n", w)
	}
	for _, a := range report.Advisories {
		fmt.Printf("[%s] %s\n", a.Severity, a.Message)
	}
}
