// Command loadtest drives a running journald with concurrent clients and
// prints per-endpoint latency percentiles.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:8090", "journald base URL")
	numWorkers   = flag.Int("workers", 20, "concurrent clients")
	testDuration = flag.Duration("duration", 10*time.Second, "length of each phase")
	numUsers     = flag.Int("users", 20, "builtin accounts to spread load over")
	withWrites   = flag.Bool("writes", false, "include /saveEntry (writes rows to the entry store)")
)

// builtin accounts, see services.builtinUsers
var passcodes = []string{
	"7hdxq2ma", "n9q1zw2s", "fmp38tkv", "8y2aclm4", "jd2k09qh",
	"v1mw8xg0", "43sn9vmc", "e71r2wpq", "wvjxy1zn", "zhc28qrx",
	"9kafj4mc", "u8cx92rw", "rm1txe57", "b5gwzm41", "70qnayhc",
	"hxv9e30b", "1vfx8qrk", "dz48mwy1", "4seu7bxp", "tcgw9e3m",
}

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	flag.Parse()
	if *numUsers < 1 || *numUsers > len(passcodes) {
		*numUsers = len(passcodes)
	}

	fmt.Println("=== journald load test ===")
	fmt.Printf("Target: %s | Workers: %d | Phase: %s | Writes: %v\n\n", *baseURL, *numWorkers, *testDuration, *withWrites)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Local endpoints (health, builtin login) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doHealth()
		}
		return doCheckUser(rng)
	})

	fmt.Println("\n--- Phase 2: Store reads (getEntries) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.9 {
			return doGetEntries(rng)
		}
		return doHealth()
	})

	if *withWrites {
		fmt.Println("\n--- Phase 3: Mixed (30% saveEntry, 70% getEntries) ---")
		runPhase(*testDuration, func(rng *rand.Rand) result {
			if rng.Float64() < 0.3 {
				return doSaveEntry(rng)
			}
			return doGetEntries(rng)
		})
	}
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func randomUser(rng *rand.Rand) (string, string) {
	i := rng.Intn(*numUsers)
	return fmt.Sprintf("user%d", i+1), passcodes[i]
}

func randomDate(rng *rand.Rand) string {
	return time.Now().AddDate(0, 0, -rng.Intn(7)).Format("2006-01-02")
}

func doHealth() result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + "/health")
	return finish("GET /health", resp, err, start, http.StatusOK)
}

func doCheckUser(rng *rand.Rand) result {
	user, pass := randomUser(rng)
	return postJSON("POST /checkUser", "/checkUser", map[string]string{"username": user, "passcode": pass}, http.StatusOK)
}

func doGetEntries(rng *rand.Rand) result {
	user, _ := randomUser(rng)
	return postJSON("POST /getEntries", "/getEntries", map[string]string{"user": user, "date": randomDate(rng)}, http.StatusOK)
}

func doSaveEntry(rng *rand.Rand) result {
	user, _ := randomUser(rng)
	now := time.Now()
	return postJSON("POST /saveEntry", "/saveEntry", map[string]string{
		"date":  now.Format("2006-01-02"),
		"time":  now.Format("3:04:05 PM"),
		"entry": fmt.Sprintf("load test entry %d", rng.Intn(1_000_000)),
		"user":  user,
	}, http.StatusOK)
}

func postJSON(label, path string, body any, want int) result {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(*baseURL+path, "application/json", bytes.NewReader(data))
	return finish(label, resp, err, start, want)
}

func finish(label string, resp *http.Response, err error, start time.Time, want int) result {
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != want}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
