// Command workflowgen renders the automation engine's workflow definition
// for ticket processing: a webhook trigger that fans out per tenant and
// reports completion back to the API's callback endpoint. The definition can
// be written to a file or pushed straight to the engine's admin API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

type node struct {
	Parameters  map[string]any `json:"parameters"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TypeVersion int            `json:"typeVersion"`
	Position    [2]int         `json:"position"`
	ID          string         `json:"id"`
}

type connection struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

type workflowDefinition struct {
	Name        string                               `json:"name"`
	Nodes       []node                               `json:"nodes"`
	Connections map[string]map[string][][]connection `json:"connections"`
	Settings    map[string]any                       `json:"settings"`
}

func main() {
	var (
		callbackURL = flag.String("callback-url", "http://localhost:3001/webhook/ticket-done", "callback endpoint the engine reports completion to")
		engineURL   = flag.String("engine-url", "", "engine admin API base URL; when set, the workflow is POSTed there")
		engineUser  = flag.String("engine-user", "", "basic auth user for the engine admin API")
		enginePass  = flag.String("engine-password", "", "basic auth password for the engine admin API")
		outPath     = flag.String("out", "", "write the definition to this file instead of stdout")
	)
	flag.Parse()

	definition := buildDefinition(*callbackURL)

	encoded, err := json.MarshalIndent(definition, "", "  ")
	if err != nil {
		fatalf("encode workflow: %v", err)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, encoded, 0o644); err != nil {
			fatalf("write %s: %v", *outPath, err)
		}
		fmt.Printf("workflow definition written to %s\n", *outPath)
	} else {
		fmt.Println(string(encoded))
	}

	if *engineURL != "" {
		if err := push(*engineURL, *engineUser, *enginePass, encoded); err != nil {
			fatalf("push workflow: %v", err)
		}
		fmt.Println("workflow created in engine")
	}
}

func buildDefinition(callbackURL string) workflowDefinition {
	nodes := []node{
		{
			Name:        "Webhook Trigger",
			Type:        "n8n-nodes-base.webhook",
			TypeVersion: 1,
			Position:    [2]int{240, 300},
			ID:          "webhook-trigger",
			Parameters: map[string]any{
				"httpMethod": "POST",
				"path":       "flowbit-ticket",
				"options":    map[string]any{},
			},
		},
		{
			Name:        "Extract Data",
			Type:        "n8n-nodes-base.set",
			TypeVersion: 1,
			Position:    [2]int{460, 300},
			ID:          "extract-data",
			Parameters: map[string]any{
				"values": map[string]any{
					"string": []map[string]string{
						{"name": "ticketId", "value": "={{$json.ticketId}}"},
						{"name": "customerId", "value": "={{$json.customerId}}"},
						{"name": "priority", "value": "={{$json.priority}}"},
						{"name": "webhookSecret", "value": "={{$json.webhookSecret}}"},
					},
				},
			},
		},
		{
			Name:        "Classify Priority",
			Type:        "n8n-nodes-base.set",
			TypeVersion: 1,
			Position:    [2]int{680, 300},
			ID:          "classify-priority",
			Parameters: map[string]any{
				"values": map[string]any{
					"string": []map[string]string{
						{"name": "status", "value": "={{$json.priority === 'High' || $json.priority === 'Critical' ? 'In Progress' : 'Open'}}"},
						{"name": "workflowData", "value": "Auto-processed based on priority"},
					},
				},
			},
		},
		{
			Name:        "Send Callback",
			Type:        "n8n-nodes-base.httpRequest",
			TypeVersion: 1,
			Position:    [2]int{900, 300},
			ID:          "send-callback",
			Parameters: map[string]any{
				"url": callbackURL,
				"options": map[string]any{
					"headers": map[string]string{
						"X-Webhook-Secret": "={{$json.webhookSecret}}",
					},
				},
				"sendBody": true,
				"bodyParameters": map[string]any{
					"parameters": []map[string]string{
						{"name": "ticketId", "value": "={{$json.ticketId}}"},
						{"name": "status", "value": "={{$json.status}}"},
						{"name": "workflowData", "value": "={{$json.workflowData}}"},
					},
				},
			},
		},
	}

	connections := map[string]map[string][][]connection{
		"Webhook Trigger":   chain("Extract Data"),
		"Extract Data":      chain("Classify Priority"),
		"Classify Priority": chain("Send Callback"),
	}

	return workflowDefinition{
		Name:        "FlowBit Ticket Processing",
		Nodes:       nodes,
		Connections: connections,
		Settings:    map[string]any{},
	}
}

func chain(next string) map[string][][]connection {
	return map[string][][]connection{
		"main": {{{Node: next, Type: "main", Index: 0}}},
	}
}

func push(engineURL, user, password string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, engineURL+"/rest/workflows", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.SetBasicAuth(user, password)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("engine responded %d", resp.StatusCode)
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
