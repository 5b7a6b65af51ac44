// replay_shipments.go posts a CSV of historical loads to a running Hitchyard
// service and tallies the verdicts.
//
// Usage:
//
//	go run scripts/replay_shipments.go -csv loads.csv -api http://localhost:8700
//
// The CSV needs a header row. Recognised columns: variant, pallet_count,
// origin_zip, destination_zip, reliability, weight_lbs, payout, commodity,
// email, company_name. Unknown columns are ignored.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

type scoreReply struct {
	Composite int    `json:"composite"`
	Verdict   string `json:"verdict"`
	Error     string `json:"error"`
}

func main() {
	csvPath := flag.String("csv", "loads.csv", "path to the shipments CSV")
	apiURL := flag.String("api", "http://localhost:8700", "Hitchyard API base URL")
	submit := flag.Bool("submit", false, "post to /api/v1/leads instead of the side-effect-free /api/v1/score")
	dryRun := flag.Bool("dry-run", false, "print parsed requests without posting")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	reqs, err := readShipments(f)
	if err != nil {
		log.Fatalf("read csv: %v", err)
	}
	log.Printf("parsed %d loads from %s", len(reqs), *csvPath)

	if *dryRun {
		for i, r := range reqs {
			body, err := json.Marshal(r)
			if err != nil {
				log.Printf("row %d: encode: %v", i+2, err)
				continue
			}
			fmt.Printf("[%d] %s\n", i+1, body)
		}
		return
	}

	path := "/api/v1/score"
	if *submit {
		path = "/api/v1/leads"
	}

	client := &http.Client{}
	verdicts := map[string]int{}
	rejected := map[string]int{}
	failed := 0
	for i, r := range reqs {
		body, err := json.Marshal(r)
		if err != nil {
			log.Printf("row %d: encode: %v", i+2, err)
			failed++
			continue
		}
		resp, err := client.Post(*apiURL+path, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("row %d: %v", i+2, err)
			failed++
			continue
		}
		var reply scoreReply
		decodeErr := decodeReply(resp.Body, path, &reply)
		resp.Body.Close()
		if decodeErr != nil {
			log.Printf("row %d: decode: %v", i+2, decodeErr)
			failed++
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnprocessableEntity:
			rejected[reply.Error]++
		case resp.StatusCode >= 300:
			log.Printf("row %d: status %d: %s", i+2, resp.StatusCode, reply.Error)
			failed++
		default:
			verdicts[reply.Verdict]++
		}
	}

	for _, k := range sortedKeys(verdicts) {
		log.Printf("verdict %q: %d", k, verdicts[k])
	}
	for _, k := range sortedKeys(rejected) {
		log.Printf("rejected %q: %d", k, rejected[k])
	}
	log.Printf("done: %d scored, %d rejected, %d failed", sum(verdicts), sum(rejected), failed)
}

// decodeReply unwraps the lead endpoint's {"score": ...} envelope so both
// endpoints report the same fields.
func decodeReply(r io.Reader, path string, reply *scoreReply) error {
	if path != "/api/v1/leads" {
		return json.NewDecoder(r).Decode(reply)
	}
	var envelope struct {
		Score scoreReply `json:"score"`
		Error string     `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return err
	}
	*reply = envelope.Score
	if envelope.Error != "" {
		reply.Error = envelope.Error
	}
	return nil
}

func readShipments(r io.Reader) ([]*shipment.Request, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var out []*shipment.Request
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		req := &shipment.Request{
			Variant:        get(row, "variant"),
			OriginZip:      get(row, "origin_zip"),
			DestinationZip: get(row, "destination_zip"),
			Commodity:      shipment.Commodity(get(row, "commodity")),
			Email:          get(row, "email"),
			CompanyName:    get(row, "company_name"),
		}
		if v := get(row, "pallet_count"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: pallet_count: %w", line, err)
			}
			req.PalletCount = &n
		}
		if v := get(row, "reliability"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: reliability: %w", line, err)
			}
			req.Reliability = &n
		}
		if v := get(row, "weight_lbs"); v != "" {
			w, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: weight_lbs: %w", line, err)
			}
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("line %d: weight_lbs: %q is not a finite number", line, v)
			}
			req.WeightLbs = &w
		}
		if v := get(row, "payout"); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: payout: %w", line, err)
			}
			req.Payout = &d
		}
		out = append(out, req)
	}
	return out, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
