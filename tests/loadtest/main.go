package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
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
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var personaTypes = []string{"assistant", "mentor", "friend", "expert", "creative", "therapist"}
var responseStyles = []string{"formal", "casual", "playful", "professional", "empathetic"}

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

// ids holds every persona id known to the load test; workers pick from it.
var ids struct {
	sync.RWMutex
	list []string
}

func main() {
	fmt.Println("=== Persona Dashboard Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		if err := loadIDs(); err == nil {
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Printf("OK (%d personas)\n", len(ids.list))

	fmt.Println("\n--- Phase 1: Creating personas (POST /personas) ---")
	runPhase(testDuration/2, doCreate)

	fmt.Println("\n--- Phase 2: Mixed load (60% chat, 40% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.45:
			return doChat(rng)
		case r < 0.60:
			return doIncrement(rng)
		case r < 0.75:
			return doGet("/stats")
		case r < 0.90:
			return doGet("/usage/daily?days=7")
		default:
			return doGet("/personas")
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (10% chat, 90% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doChat(rng)
		case r < 0.50:
			return doGet("/stats")
		case r < 0.70:
			return doGet("/stats/types")
		case r < 0.90:
			return doGet("/usage/daily")
		default:
			return doGet("/personas?q=" + personaTypes[rng.IntN(len(personaTypes))])
		}
	})
}

func loadIDs() error {
	resp, err := httpClient.Get(baseURL + "/personas")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var personas []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&personas); err != nil {
		return err
	}
	ids.Lock()
	defer ids.Unlock()
	ids.list = ids.list[:0]
	for _, p := range personas {
		ids.list = append(ids.list, p.ID)
	}
	return nil
}

func randomID(rng *rand.Rand) string {
	ids.RLock()
	defer ids.RUnlock()
	if len(ids.list) == 0 {
		return "missing"
	}
	return ids.list[rng.IntN(len(ids.list))]
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, uint64(time.Now().UnixNano())))
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
		}(rand.Uint64() + uint64(i))
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

	fmt.Printf("\n  %-28s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 94))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-28s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 94))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(max(totalOps, 1))*100, rps)
}

func doCreate(rng *rand.Rand) result {
	body := map[string]interface{}{
		"name":          fmt.Sprintf("Load Persona %d", rng.IntN(100000)),
		"type":          personaTypes[rng.IntN(len(personaTypes))],
		"responseStyle": responseStyles[rng.IntN(len(responseStyles))],
		"specialty":     "Load testing",
		"tags":          []string{"load", "test"},
		"rating":        1 + rng.Float64()*4,
	}
	data, _ := json.Marshal(body)

	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/personas", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /personas", 0, lat, true}
	}
	defer resp.Body.Close()

	var created struct {
		ID string `json:"id"`
	}
	if resp.StatusCode == http.StatusCreated && json.NewDecoder(resp.Body).Decode(&created) == nil {
		ids.Lock()
		ids.list = append(ids.list, created.ID)
		ids.Unlock()
	}
	return result{"POST /personas", resp.StatusCode, lat, resp.StatusCode != http.StatusCreated}
}

func doChat(rng *rand.Rand) result {
	return doPost("POST /personas/{id}/chat", fmt.Sprintf("/personas/%s/chat", randomID(rng)))
}

func doIncrement(rng *rand.Rand) result {
	return doPost("POST /personas/{id}/usage", fmt.Sprintf("/personas/%s/usage", randomID(rng)))
}

func doPost(label, path string) result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doGet(path string) result {
	label := "GET " + strings.SplitN(path, "?", 2)[0]
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
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
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
