package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tagview-api/pkg/engine"
	"tagview-api/pkg/importer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: analyze --file=snapshot.xlsx [--now=2025-09-22T00:00:00Z] [--long-checkout=30] [--stale=90]")
		os.Exit(1)
	}

	var filePath, nowStr string
	thresholds := engine.DefaultThresholds()

	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "--file=") {
			filePath = strings.TrimPrefix(arg, "--file=")
		} else if strings.HasPrefix(arg, "--now=") {
			nowStr = strings.TrimPrefix(arg, "--now=")
		} else if strings.HasPrefix(arg, "--long-checkout=") {
			v, err := strconv.Atoi(strings.TrimPrefix(arg, "--long-checkout="))
			if err != nil {
				log.Fatalf("Invalid long-checkout: %v", err)
			}
			thresholds.LongCheckoutDays = v
		} else if strings.HasPrefix(arg, "--stale=") {
			v, err := strconv.Atoi(strings.TrimPrefix(arg, "--stale="))
			if err != nil {
				log.Fatalf("Invalid stale: %v", err)
			}
			thresholds.StaleUpdateDays = v
		}
	}

	if filePath == "" {
		fmt.Println("Error: file is required")
		fmt.Println("Usage: analyze --file=snapshot.xlsx [--now=...] [--long-checkout=...] [--stale=...]")
		os.Exit(1)
	}

	now := time.Now().UTC()
	if nowStr != "" {
		parsed, err := time.Parse(time.RFC3339, nowStr)
		if err != nil {
			log.Fatalf("Invalid now: %v", err)
		}
		now = parsed.UTC()
	}

	table, err := importer.ReadSnapshotFile(filePath)
	if err != nil {
		log.Fatalf("Failed to read snapshot: %v", err)
	}

	snap, err := engine.BuildSnapshot(table, now, thresholds)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("Analyzing %s as of %s (long-checkout=%dd, stale=%dd)\n",
		filePath, now.Format(time.RFC3339), thresholds.LongCheckoutDays, thresholds.StaleUpdateDays)
	fmt.Println(strings.Repeat("=", 60))

	s := snap.Summary
	fmt.Printf("Total assets: %d\n", s.Total)
	for _, status := range engine.AllStatuses {
		fmt.Printf("  %s: %d\n", status, s.ByStatus[status])
	}
	fmt.Printf("Risk score: %.1f\n", s.RiskScore)

	if len(s.CheckoutAges) > 0 {
		fmt.Println("\nCheckout ages:")
		for _, b := range s.CheckoutAges {
			fmt.Printf("  %s days: %d\n", b.Bucket, b.Count)
		}
	}

	if len(s.BuildingRisk) > 0 {
		fmt.Println("\nBuilding risk:")
		for _, br := range s.BuildingRisk {
			fmt.Printf("  %s: %.1f (long checkout=%d, inactive checked out=%d, total=%d)\n",
				br.Building, br.RiskScore, br.LongCheckout, br.InactiveCheckedOut, br.Total)
		}
	}

	if len(snap.Alerts) > 0 {
		fmt.Println("\n" + strings.Repeat("=", 60))
		fmt.Printf("ALERTS (%d)\n", len(snap.Alerts))
		fmt.Println(strings.Repeat("=", 60))
		for _, a := range snap.Alerts {
			fmt.Printf("  [%s] %s %s: %s\n", strings.ToUpper(string(a.Severity)), a.AssetID, a.Kind, a.Message)
		}
	}

	if len(snap.Warnings) > 0 {
		fmt.Println("\n" + strings.Repeat("=", 60))
		fmt.Printf("ROW WARNINGS (%d)\n", len(snap.Warnings))
		fmt.Println(strings.Repeat("=", 60))
		for _, w := range snap.Warnings {
			if w.AssetID != "" {
				fmt.Printf("  Row %d (%s): %s\n", w.Row, w.AssetID, w.Reason)
			} else {
				fmt.Printf("  Row %d: %s\n", w.Row, w.Reason)
			}
		}
	}
}
