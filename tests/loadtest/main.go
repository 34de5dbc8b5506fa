package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var baseURL string

var methods = []string{"breast", "bottle-breastmilk", "formula"}
var sides = []string{"left", "right", "both", "na"}
var diaperTypes = []string{"wet", "dirty", "mixed", "poop"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
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

// acked collects the identifiers the server acknowledged with 201.
type acked struct {
	mu  sync.Mutex
	ids map[int64]int
}

func (a *acked) add(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids[id]++
}

var feedingIDs = &acked{ids: make(map[int64]int)}

func main() {
	flag.StringVar(&baseURL, "url", "http://127.0.0.1:8787", "server base URL")
	flag.Parse()

	fmt.Println("=== BabyLog Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Target: %s\n\n", numWorkers, testDuration, baseURL)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/api/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Concurrent inserts (POST /api/feedings) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPostFeeding(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed load (60% POST, 30% GET, 10% export) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doPostFeeding(rng)
		case r < 0.60:
			return doPostDiaper(rng)
		case r < 0.90:
			return doGetList("feedings")
		default:
			return doGetExport()
		}
	})

	fmt.Println("\n--- Verification ---")
	if err := verify(); err != nil {
		fmt.Printf("  FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("  OK: every acknowledged feeding is listed exactly once")
}

// verify lists the feedings and checks that identifiers are distinct and
// that no acknowledged insert was lost.
func verify() error {
	resp, err := httpClient.Get(baseURL + "/api/feedings")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var records []struct {
		ID int64 `json:"id"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return err
	}

	listed := make(map[int64]int, len(records))
	for _, rec := range records {
		listed[rec.ID]++
		if listed[rec.ID] > 1 {
			return fmt.Errorf("id %d listed %d times", rec.ID, listed[rec.ID])
		}
	}

	feedingIDs.mu.Lock()
	defer feedingIDs.mu.Unlock()
	for id, n := range feedingIDs.ids {
		if n > 1 {
			return fmt.Errorf("id %d acknowledged %d times", id, n)
		}
		if listed[id] == 0 {
			return fmt.Errorf("acknowledged id %d missing from list", id)
		}
	}
	fmt.Printf("  listed: %d | acknowledged this run: %d\n", len(records), len(feedingIDs.ids))
	return nil
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
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
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func post(endpoint, path string, body map[string]interface{}) (result, []byte) {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}, nil
	}
	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusCreated}, payload
}

func timestamp(rng *rand.Rand) string {
	return time.Now().Add(-time.Duration(rng.Intn(72*3600)) * time.Second).UTC().Format(time.RFC3339Nano)
}

func doPostFeeding(rng *rand.Rand) result {
	body := map[string]interface{}{
		"datetime":    timestamp(rng),
		"method":      methods[rng.Intn(len(methods))],
		"side":        sides[rng.Intn(len(sides))],
		"durationMin": rng.Intn(40),
		"amountMl":    rng.Intn(180),
	}
	r, payload := post("POST /api/feedings", "/api/feedings", body)
	if !r.err {
		var created struct {
			ID int64 `json:"id"`
		}
		if json.Unmarshal(payload, &created) == nil && created.ID > 0 {
			feedingIDs.add(created.ID)
		} else {
			r.err = true
		}
	}
	return r
}

func doPostDiaper(rng *rand.Rand) result {
	body := map[string]interface{}{
		"datetime": timestamp(rng),
		"type":     diaperTypes[rng.Intn(len(diaperTypes))],
	}
	r, _ := post("POST /api/diapers", "/api/diapers", body)
	return r
}

func get(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doGetList(collection string) result {
	return get("GET /api/"+collection, "/api/"+collection)
}

func doGetExport() result {
	return get("GET /api/export", "/api/export")
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

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
