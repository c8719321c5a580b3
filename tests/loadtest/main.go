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

const (
	numWorkers = 20
	numPrompts = 200
	numTags    = 8
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:7411", "archivist base URL")
	testDuration = flag.Duration("duration", 10*time.Second, "duration of each phase")
)

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
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

// envelope is the subset of the backup/data response checked for success.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func main() {
	flag.Parse()

	fmt.Println("=== Archivist Load Test ===")
	fmt.Printf("Workers: %d | Phase duration: %s | Prompts: %d\n\n", numWorkers, *testDuration, numPrompts)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: collection rewrites with occasional manual backups
	fmt.Println("\n--- Phase 1: Writes (90% store/set, 10% backup/create) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.90 {
			return doSetPrompts(rng)
		}
		return doEnvelope("POST /backup/create", "/backup/create", nil)
	})

	// Phase 2: what the UI does while idle
	fmt.Println("\n--- Phase 2: Mixed load (20% writes, 80% reads) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.15:
			return doSetPrompts(rng)
		case r < 0.20:
			return doStatsUpdate(rng)
		case r < 0.45:
			return doGet("GET /stats", "/stats")
		case r < 0.65:
			return doGet("GET /backup/list", "/backup/list")
		case r < 0.85:
			return doPost("POST /store/get", "/store/get", map[string]any{"key": "prompts"}, http.StatusOK)
		default:
			return doGet("GET /data/validate", "/data/validate")
		}
	})

	// Phase 3: heavy operations that take the global lock for longer
	fmt.Println("\n--- Phase 3: Heavy operations (export, restore, import) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doGet("GET /data/export", "/data/export")
		case r < 0.80:
			return doRestoreLatest()
		default:
			return doImport(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 1000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
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
	var totalOps int64
	var totalErrors int64

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
		fmt.Println("  No requests completed")
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomPrompts(rng *rand.Rand, n int) []map[string]any {
	prompts := make([]map[string]any, n)
	for i := range prompts {
		tags := make([]string, rng.Intn(3))
		for j := range tags {
			tags[j] = fmt.Sprintf("tag-%d", rng.Intn(numTags))
		}
		prompts[i] = map[string]any{
			"id":       i + 1,
			"title":    fmt.Sprintf("Prompt %d", i+1),
			"content":  strings.Repeat("lorem ipsum ", rng.Intn(40)+1),
			"tags":     tags,
			"favorite": rng.Float64() < 0.2,
			"rating":   rng.Intn(6),
		}
	}
	return prompts
}

func doSetPrompts(rng *rand.Rand) result {
	body := map[string]any{"key": "prompts", "value": randomPrompts(rng, rng.Intn(numPrompts)+1)}
	return doEnvelope("POST /store/set", "/store/set", body)
}

func doStatsUpdate(rng *rand.Rand) result {
	return doPost("POST /stats/update", "/stats/update", map[string]any{"totalUsage": rng.Intn(1000)}, http.StatusOK)
}

func doImport(rng *rand.Rand) result {
	body := map[string]any{"prompts": randomPrompts(rng, rng.Intn(5)+1)}
	return doEnvelope("POST /data/import", "/data/import", body)
}

func doRestoreLatest() result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + "/backup/list")
	if err != nil {
		return result{"POST /backup/restore", 0, time.Since(start), true}
	}
	var backups []struct {
		ID string `json:"id"`
	}
	err = json.NewDecoder(resp.Body).Decode(&backups)
	resp.Body.Close()
	if err != nil || len(backups) == 0 {
		return result{"POST /backup/restore", resp.StatusCode, time.Since(start), true}
	}
	return doEnvelope("POST /backup/restore", "/backup/restore", map[string]any{"id": backups[len(backups)-1].ID})
}

func doGet(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doPost(endpoint, path string, body any, want int) result {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(*baseURL+path, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

// doEnvelope posts body and also counts success=false envelopes as errors.
func doEnvelope(endpoint, path string, body any) result {
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}
	start := time.Now()
	resp, err := httpClient.Post(*baseURL+path, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return result{endpoint, resp.StatusCode, lat, true}
	}
	return result{endpoint, resp.StatusCode, lat, !env.Success}
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
