package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"timeclock.service/internal/api/handler"
	"timeclock.service/pkg/client"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	numEmployees := flag.Int("employees", 500, "employees to register, clock in and clock out")
	concurrency := flag.Int("concurrency", 50, "concurrent employees") // keeps local port usage bounded
	flag.Parse()

	c := client.New(*baseURL)
	run := time.Now().Unix()

	// Each employee makes two requests: register with clock-in, then clock out.
	totalRequests := *numEmployees * 2
	fmt.Printf("Starting load test: %d employees (%d requests) to %s with concurrency %d\n", *numEmployees, totalRequests, *baseURL, *concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, *concurrency) // Semaphore to limit concurrency

	var successCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < *numEmployees; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			ctx := context.Background()
			res, err := c.CreateUser(ctx, handler.UserDTO{
				Name:        fmt.Sprintf("Load Test%d", n),
				PhoneNumber: fmt.Sprintf("555%07d", n),
				Email:       fmt.Sprintf("load-%d-%d@example.com", run, n),
			}, true)
			if err != nil || res.Shift == nil {
				atomic.AddInt64(&failCount, 2)
				return
			}
			atomic.AddInt64(&successCount, 1)

			_, err = c.ClockOut(ctx, handler.ClockOutRequest{ShiftID: res.Shift.ShiftID, UserID: res.User.UserID})
			if err != nil {
				atomic.AddInt64(&failCount, 1)
				return
			}
			atomic.AddInt64(&successCount, 1)
		}(i)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}
