package main

import (
	"errors"
	"log"
	"os"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/layerdag"
)

// store guards a single in-memory *layerdag.Graph behind a mutex — the core
// library itself is immutable and lock-free, but the HTTP facade serializes
// writes against the one version every request observes.
type store struct {
	mu sync.Mutex
	g  *layerdag.Graph
}

func (s *store) get() *layerdag.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g
}

func (s *store) commit(fn func(m *layerdag.Mutator)) (*layerdag.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.g.WithMutations(fn)
	if err != nil {
		return nil, err
	}
	s.g = g
	return g, nil
}

func main() {
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	s := &store{g: &layerdag.Graph{}}
	app := fiber.New()

	app.Post("/nodes", func(c fiber.Ctx) error {
		var n layerdag.Node
		if err := c.Bind().JSON(&n); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if _, err := s.commit(func(m *layerdag.Mutator) { m.AddNode(n) }); err != nil {
			return mapMutationError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"id": n.ID})
	})

	app.Delete("/nodes/:id", func(c fiber.Ctx) error {
		id := layerdag.NodeID(c.Params("id"))
		if _, err := s.commit(func(m *layerdag.Mutator) { m.RemoveNode(id) }); err != nil {
			return mapMutationError(c, err)
		}
		return c.SendStatus(204)
	})

	app.Get("/nodes/:id/layer", func(c fiber.Ctx) error {
		id := layerdag.NodeID(c.Params("id"))
		g := s.get()
		if !g.HasNode(id) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		lid, ok := g.LayerOf(id)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "node has no layer"})
		}
		layer, ok := g.Layers()[lid]
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "layer not found"})
		}
		return c.JSON(fiber.Map{"layer_id": layer.ID, "index": layer.Index})
	})

	app.Post("/edges", func(c fiber.Ctx) error {
		var e layerdag.Edge
		if err := c.Bind().JSON(&e); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if _, err := s.commit(func(m *layerdag.Mutator) { m.AddEdge(e) }); err != nil {
			return mapMutationError(c, err)
		}
		id := layerdag.ComputeEdgeID(e.SourceID, e.SourcePort, e.TargetID, e.TargetPort)
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Delete("/edges/:id", func(c fiber.Ctx) error {
		id := layerdag.EdgeID(c.Params("id"))
		if _, err := s.commit(func(m *layerdag.Mutator) { m.RemoveEdge(id) }); err != nil {
			return mapMutationError(c, err)
		}
		return c.SendStatus(204)
	})

	app.Get("/layers", func(c fiber.Ctx) error {
		g := s.get()
		out := make([]layerdag.Layer, 0, len(g.Layers()))
		for _, id := range g.LayerList() {
			if layer, ok := g.Layers()[id]; ok {
				out = append(out, layer)
			}
		}
		return c.JSON(out)
	})

	app.Get("/graphs", func(c fiber.Ctx) error {
		g := s.get()
		return c.JSON(fiber.Map{"summary": g.String()})
	})

	log.Fatal(app.Listen(addr))
}

func mapMutationError(c fiber.Ctx, err error) error {
	var cycleErr *layerdag.CycleError
	if errors.As(err, &cycleErr) {
		return c.Status(422).JSON(fiber.Map{"error": cycleErr.Error(), "cycle": cycleErr.Cycle})
	}
	var epErr *layerdag.UnknownEndpointError
	if errors.As(err, &epErr) {
		return c.Status(400).JSON(fiber.Map{"error": epErr.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}
