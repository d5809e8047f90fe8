package catalog

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"video-stream/entities"
)

func newVideo(id string) *entities.Video {
	return &entities.Video{Id: id, FileName: id + ".mp4", Size: 10, CreatedAt: time.Now()}
}

func TestInsertAndGet(t *testing.T) {
	c := New()
	if err := c.Insert(newVideo("a")); err != nil {
		t.Fatalf("Insert(a) returned error %v", err)
	}
	v, err := c.Get("a")
	if err != nil {
		t.Fatalf("Get(a) returned error %v", err)
	}
	if v.Id != "a" {
		t.Errorf("Get(a).Id = %q, want %q", v.Id, "a")
	}
}

func TestGetUnknown(t *testing.T) {
	c := New()
	if _, err := c.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrNotFound)
	}
}

func TestInsertDuplicate(t *testing.T) {
	c := New()
	first := newVideo("a")
	if err := c.Insert(first); err != nil {
		t.Fatal(err)
	}
	second := newVideo("a")
	second.Size = 99
	if err := c.Insert(second); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Insert(duplicate) error = %v, want %v", err, ErrDuplicateID)
	}
	v, _ := c.Get("a")
	if v != first {
		t.Error("duplicate insert overwrote the existing record")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestInsertRejectsEmptyId(t *testing.T) {
	c := New()
	if err := c.Insert(&entities.Video{}); err == nil {
		t.Error("Insert(empty id) returned nil error")
	}
	if err := c.Insert(nil); err == nil {
		t.Error("Insert(nil) returned nil error")
	}
}

func TestListInsertionOrder(t *testing.T) {
	c := New()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if err := c.Insert(newVideo(id)); err != nil {
			t.Fatal(err)
		}
	}
	list := c.List()
	if len(list) != len(ids) {
		t.Fatalf("len(List()) = %d, want %d", len(list), len(ids))
	}
	for i, id := range ids {
		if list[i].Id != id {
			t.Errorf("List()[%d].Id = %q, want %q", i, list[i].Id, id)
		}
	}

	// the returned slice is a snapshot
	list[0] = nil
	if c.List()[0] == nil {
		t.Error("List() exposed the internal slice")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if err := c.Insert(newVideo(fmt.Sprintf("v%d", i))); err != nil {
				t.Errorf("Insert(v%d) returned error %v", i, err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if v, err := c.Get(fmt.Sprintf("v%d", i)); err == nil && v.Size != 10 {
				t.Errorf("Get(v%d) observed a partial record", i)
			}
			_ = c.List()
		}(i)
	}
	wg.Wait()
	if c.Len() != 50 {
		t.Errorf("Len() = %d, want 50", c.Len())
	}
}
