package graphindex_test

import (
	"sync"
	"testing"

	"github.com/coreason-ai/archive/archivemodel"
	"github.com/coreason-ai/archive/graphindex"
)

func TestAddEdge_IsIdempotent(t *testing.T) {
	ix := graphindex.New()
	ix.AddEdge("Thought:1", archivemodel.RelCreated, "User:alice")
	ix.AddEdge("Thought:1", archivemodel.RelCreated, "User:alice")

	neighbors := ix.Neighbors("Thought:1")
	if len(neighbors) != 1 {
		t.Fatalf("got %d neighbors, want 1 (duplicate edge insert should be a no-op)", len(neighbors))
	}
}

func TestNeighbors_IsDirectionAgnostic(t *testing.T) {
	ix := graphindex.New()
	ix.AddEdge("Thought:1", archivemodel.RelBelongsTo, "Project:Apollo")

	if got := ix.Neighbors("Project:Apollo"); len(got) != 1 || got[0] != "Thought:1" {
		t.Fatalf("Neighbors(Project:Apollo) = %v, want [Thought:1]", got)
	}
}

func TestNeighbors_FiltersByRelation(t *testing.T) {
	ix := graphindex.New()
	ix.AddEdge("Thought:1", archivemodel.RelCreated, "User:alice")
	ix.AddEdge("Thought:1", archivemodel.RelBelongsTo, "Project:Apollo")

	got := ix.Neighbors("Thought:1", archivemodel.RelCreated)
	if len(got) != 1 || got[0] != "User:alice" {
		t.Fatalf("Neighbors filtered by RelCreated = %v, want [User:alice]", got)
	}
}

func TestLinked_SelfIsAlwaysLinked(t *testing.T) {
	ix := graphindex.New()
	if !ix.Linked("Thought:1", "Thought:1", 0) {
		t.Fatalf("a node must be linked to itself even at 0 hops")
	}
}

func TestLinked_WithinHopBudget(t *testing.T) {
	ix := graphindex.New()
	ix.AddEdge("Thought:1", archivemodel.RelBelongsTo, "Project:Apollo")
	ix.AddEdge("Project:Apollo", archivemodel.RelRelatedTo, "Department:RnD")

	if !ix.Linked("Thought:1", "Department:RnD", 2) {
		t.Fatalf("expected Thought:1 linked to Department:RnD within 2 hops")
	}
	if ix.Linked("Thought:1", "Department:RnD", 1) {
		t.Fatalf("Department:RnD is 2 hops away, must not be linked within 1 hop")
	}
}

func TestLinked_Unreachable(t *testing.T) {
	ix := graphindex.New()
	ix.AddEdge("Thought:1", archivemodel.RelCreated, "User:alice")
	if ix.Linked("Thought:1", "Project:Nonexistent", 5) {
		t.Fatalf("expected no path to an isolated node")
	}
}

func TestRemoveNode_ErasesIncidentEdges(t *testing.T) {
	ix := graphindex.New()
	ix.AddEdge("Thought:1", archivemodel.RelCreated, "User:alice")
	ix.AddEdge("Thought:2", archivemodel.RelCreated, "User:alice")

	ix.RemoveNode("Thought:1")

	if ix.HasNode("Thought:1") {
		t.Fatalf("expected Thought:1 removed")
	}
	got := ix.Neighbors("User:alice")
	if len(got) != 1 || got[0] != "Thought:2" {
		t.Fatalf("Neighbors(User:alice) after removing Thought:1 = %v, want [Thought:2]", got)
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	ix := graphindex.New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			ix.AddEdge("Thought:1", archivemodel.RelRelatedTo, "Entity:X")
		}(i)
		go func(i int) {
			defer wg.Done()
			ix.Linked("Thought:1", "Entity:X", 2)
		}(i)
	}
	wg.Wait()
}
