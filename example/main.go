package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/layerdag"
	"github.com/meikuraledutech/layerdag/postgres"
)

func main() {
	g := &layerdag.Graph{}

	g, err := g.AddNodes([]layerdag.Node{
		{ID: "q1", Data: json.RawMessage(`{"question": "What is your role?", "type": "select"}`)},
		{ID: "q2", Data: json.RawMessage(`{"question": "Preferred language?", "type": "select"}`)},
		{ID: "q3", Data: json.RawMessage(`{"question": "Preferred design tool?", "type": "select"}`)},
	})
	if err != nil {
		log.Fatalf("add nodes: %v", err)
	}
	fmt.Println("graph created")

	g, err = g.AddEdges([]layerdag.Edge{
		{SourceID: "q1", TargetID: "q2", Data: json.RawMessage(`{"answer": "Developer"}`)},
		{SourceID: "q1", TargetID: "q3", Data: json.RawMessage(`{"answer": "Designer"}`)},
	})
	if err != nil {
		log.Fatalf("add edges: %v", err)
	}
	fmt.Println("edges added")
	printJSON(g.Layers())

	// ── Granular: add a single node ───────────────────────────────────
	g, err = g.AddNode(layerdag.Node{
		ID:   "q4",
		Data: json.RawMessage(`{"question": "Years of experience?", "type": "number"}`),
	})
	if err != nil {
		log.Fatalf("add node: %v", err)
	}
	fmt.Println("\nadded node q4")

	// ── Granular: add an edge from q2 → q4 ────────────────────────────
	g, err = g.AddEdge(layerdag.Edge{SourceID: "q2", TargetID: "q4", Data: json.RawMessage(`{"answer": "any"}`)})
	if err != nil {
		log.Fatalf("add edge: %v", err)
	}
	fmt.Println("added edge q2 -> q4")

	fmt.Printf("\n%s\n", g.String())
	printJSON(g.Nodes())

	// ── Reject a cycle ────────────────────────────────────────────────
	if _, err := g.AddEdge(layerdag.Edge{SourceID: "q4", TargetID: "q1"}); err != nil {
		fmt.Printf("\nrejected edge q4 -> q1: %v\n", err)
	}

	// ── Optional: persist the committed snapshot to Postgres ──────────
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Println("\nDATABASE_URL not set, skipping postgres demo")
		return
	}
	runPostgresDemo(g, dbURL)
}

func runPostgresDemo(g *layerdag.Graph, dbURL string) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	store := postgres.New(pool)

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("\nschema created")

	if err := store.PutGraph(ctx, "onboarding-form", g); err != nil {
		log.Fatalf("put graph: %v", err)
	}
	fmt.Println("graph persisted as onboarding-form")

	roundTripped, err := store.GetGraph(ctx, "onboarding-form")
	if err != nil {
		log.Fatalf("get graph: %v", err)
	}
	fmt.Printf("round-tripped: %s\n", roundTripped.String())

	ids, err := store.ListGraphIDs(ctx)
	if err != nil {
		log.Fatalf("list graph ids: %v", err)
	}
	fmt.Printf("known graphs: %v\n", ids)

	if err := store.DeleteGraph(ctx, "onboarding-form"); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("graph deleted")
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
