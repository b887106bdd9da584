package domain

import (
	"errors"
	"testing"
)

func consumerNode(lat, lon float64) *Node {
	n := NewNode(NewPosition(lat, lon), NodeTypeConsumer, HowAddedAutomatic)
	n.ConsumerType = ConsumerTypeHousehold
	n.ConsumerDetail = ConsumerDetailDefault
	n.IsConnected = true
	return n
}

func TestGridAddNode(t *testing.T) {
	t.Run("adds a valid node", func(t *testing.T) {
		g := NewGrid()
		if err := g.AddNode(consumerNode(-13.96, 38.80)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.NodeCount() != 1 {
			t.Errorf("expected 1 node, got %d", g.NodeCount())
		}
	})

	t.Run("rejects unknown node type", func(t *testing.T) {
		g := NewGrid()
		n := NewNode(NewPosition(0, 0), NodeType("transformer"), HowAddedManual)
		err := g.AddNode(n)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.Field != "node_type" {
			t.Errorf("expected field 'node_type', got %q", vErr.Field)
		}
	})

	t.Run("rejects shs option on non-consumer node", func(t *testing.T) {
		g := NewGrid()
		n := NewNode(NewPosition(0, 0), NodeTypePole, HowAddedAutomatic)
		opt := 0
		n.ShsOptions = &opt
		if err := g.AddNode(n); err == nil {
			t.Error("expected error for shs option on a pole")
		}
	})

	t.Run("rejects duplicate coordinate within tolerance", func(t *testing.T) {
		g := NewGrid()
		if err := g.AddNode(consumerNode(-13.9668351, 38.8039452)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := g.AddNode(consumerNode(-13.9668353, 38.8039449))
		if err == nil {
			t.Error("expected duplicate-position error for node within tolerance")
		}
	})

	t.Run("rejects dangling parent reference", func(t *testing.T) {
		g := NewGrid()
		n := consumerNode(-13.96, 38.80)
		n.Parent = "no-such-node"
		if err := g.AddNode(n); err == nil {
			t.Error("expected error for parent reference to missing node")
		}
	})

	t.Run("accepts parent reference to existing node", func(t *testing.T) {
		g := NewGrid()
		pole := NewNode(NewPosition(-13.95, 38.80), NodeTypePole, HowAddedAutomatic)
		if err := g.AddNode(pole); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n := consumerNode(-13.96, 38.80)
		n.Parent = pole.ID
		if err := g.AddNode(n); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestGridAddLink(t *testing.T) {
	from := NewPosition(-13.96, 38.80)
	to := NewPosition(-13.95, 38.80)

	t.Run("computes length when omitted", func(t *testing.T) {
		g := NewGrid()
		link, err := g.AddLink(from, to, LinkTypeDistribution, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if link.Length <= 0 {
			t.Errorf("expected positive computed length, got %v", link.Length)
		}
	})

	t.Run("rejects zero-length links", func(t *testing.T) {
		g := NewGrid()
		zero := 0.0
		if _, err := g.AddLink(from, to, LinkTypeDistribution, &zero); err == nil {
			t.Error("expected error for supplied length 0")
		}
	})

	t.Run("rejects coincident endpoints", func(t *testing.T) {
		g := NewGrid()
		if _, err := g.AddLink(from, from, LinkTypeConnection, nil); err == nil {
			t.Error("expected error for coincident endpoints")
		}
	})

	t.Run("rejects length inconsistent with endpoints", func(t *testing.T) {
		g := NewGrid()
		wrong := from.DistanceTo(to) * 3
		if _, err := g.AddLink(from, to, LinkTypeDistribution, &wrong); err == nil {
			t.Error("expected error for length three times the endpoint distance")
		}
	})

	t.Run("accepts supplied length within tolerance", func(t *testing.T) {
		g := NewGrid()
		close := from.DistanceTo(to) * 1.01
		if _, err := g.AddLink(from, to, LinkTypeDistribution, &close); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects duplicate segment", func(t *testing.T) {
		g := NewGrid()
		if _, err := g.AddLink(from, to, LinkTypeDistribution, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := g.AddLink(to, from, LinkTypeDistribution, nil); err == nil {
			t.Error("expected error for the same segment in reverse direction")
		}
	})
}

func TestGridIsConnected(t *testing.T) {
	// power-house -- pole -- consumer, with a stranded consumer aside
	power := NewPosition(-13.950, 38.800)
	pole := NewPosition(-13.955, 38.800)
	consumer := NewPosition(-13.960, 38.800)
	stranded := NewPosition(-13.970, 38.810)

	g := NewGrid()
	ph := NewNode(power, NodeTypePowerHouse, HowAddedManual)
	if err := g.AddNode(ph); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.AddNode(NewNode(pole, NodeTypePole, HowAddedAutomatic)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := consumerNode(consumer.Lat(), consumer.Lon())
	if err := g.AddNode(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := consumerNode(stranded.Lat(), stranded.Lon())
	if err := g.AddNode(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.AddLink(power, pole, LinkTypeDistribution, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.AddLink(pole, consumer, LinkTypeConnection, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("reaches power source over two hops", func(t *testing.T) {
		if !g.IsConnected(c) {
			t.Error("expected consumer to reach the power house")
		}
	})

	t.Run("power source is trivially connected", func(t *testing.T) {
		if !g.IsConnected(ph) {
			t.Error("expected power house to be connected")
		}
	})

	t.Run("stranded consumer is not connected", func(t *testing.T) {
		if g.IsConnected(s) {
			t.Error("expected stranded consumer to be disconnected")
		}
	})

	t.Run("adjacency cache is invalidated by mutation", func(t *testing.T) {
		if g.IsConnected(s) {
			t.Fatal("precondition failed: stranded consumer already connected")
		}
		if _, err := g.AddLink(pole, stranded, LinkTypeConnection, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !g.IsConnected(s) {
			t.Error("expected consumer to be connected after adding a link")
		}
	})
}

func TestGridClone(t *testing.T) {
	g := NewGrid()
	n := consumerNode(-13.96, 38.80)
	cost := 12.5
	n.DistributionCost = &cost
	if err := g.AddNode(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := g.Clone()
	cn, ok := c.FindNode(n.Position)
	if !ok {
		t.Fatal("expected cloned grid to contain the node")
	}

	*cn.DistributionCost = 99
	cn.Parent = "other"

	if *n.DistributionCost != 12.5 {
		t.Errorf("expected original cost 12.5, got %v", *n.DistributionCost)
	}
	if n.Parent != ParentUnknown {
		t.Errorf("expected original parent %q, got %q", ParentUnknown, n.Parent)
	}
}
