package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

func TestFoodPointCycle(t *testing.T) {
	const capacity, timeout = 3, 5
	f := NewFoodPoint(100, 100, capacity, 2, timeout)

	for i := 0; i < capacity; i++ {
		if !f.Active {
			t.Fatalf("inactive after %d feedings", i)
		}
		f.Capacity--
		f.CheckActive()
	}
	if f.Active || f.Capacity != 0 {
		t.Fatalf("after %d feedings: active=%v capacity=%d", capacity, f.Active, f.Capacity)
	}

	for i := 1; i < timeout; i++ {
		f.CheckActive()
		if f.Active {
			t.Fatalf("reactivated after %d ticks, want %d", i, timeout)
		}
	}
	f.CheckActive()
	if !f.Active || f.Capacity != capacity {
		t.Errorf("after timeout: active=%v capacity=%d", f.Active, f.Capacity)
	}
}

func TestFoodPointSide(t *testing.T) {
	f := NewFoodPoint(0, 0, 40, 2, 2800)
	if got := f.Side(15); got != 120 {
		t.Errorf("Side(15) = %v, want 120", got)
	}
}

func TestFoodFeedsOnlyHungryFish(t *testing.T) {
	fx := newFixture(t)
	sys := NewFoodSystem(fx.world, fx.cfg.Fish.MaxHunger)
	fishMap := ecs.NewMap[components.Fish](fx.world)

	hungry := fx.addFish(105, 100, testGenome(0.5), 100) // threshold 950
	sated := fx.addFish(110, 100, testGenome(0.5), 1200) // above threshold
	far := fx.addFish(400, 400, testGenome(0.5), 10)     // outside the footprint
	fx.addPredator(100, 110, 0, 0)

	points := []FoodPoint{NewFoodPoint(100, 100, 40, 2, 2800)}
	if meals := sys.Update(fx.grid, points); meals != 1 {
		t.Errorf("meals = %d, want 1", meals)
	}

	if h := fishMap.Get(hungry).Hunger; h != fx.cfg.Fish.MaxHunger {
		t.Errorf("hungry fish hunger = %d, want %d", h, fx.cfg.Fish.MaxHunger)
	}
	if h := fishMap.Get(sated).Hunger; h != 1200 {
		t.Errorf("sated fish hunger = %d, want unchanged 1200", h)
	}
	if h := fishMap.Get(far).Hunger; h != 10 {
		t.Errorf("distant fish hunger = %d, want unchanged 10", h)
	}
	if points[0].Capacity != 39 {
		t.Errorf("capacity = %d, want 39", points[0].Capacity)
	}
}

func TestFoodDepletesMidScan(t *testing.T) {
	fx := newFixture(t)
	sys := NewFoodSystem(fx.world, fx.cfg.Fish.MaxHunger)

	for i := 0; i < 3; i++ {
		fx.addFish(100+float64(i), 100, testGenome(0.5), 50)
	}

	points := []FoodPoint{NewFoodPoint(100, 100, 2, 2, 2800)}
	if meals := sys.Update(fx.grid, points); meals != 2 {
		t.Errorf("meals = %d, want 2", meals)
	}
	p := points[0]
	if p.Active || p.Capacity != 0 {
		t.Errorf("active=%v capacity=%d, want depleted", p.Active, p.Capacity)
	}
	// The trailing check of the same tick already counts toward the timeout
	if p.Timer != 1 {
		t.Errorf("timer = %d, want 1", p.Timer)
	}

	// An inactive point feeds nobody
	if meals := sys.Update(fx.grid, points); meals != 0 {
		t.Errorf("inactive point served %d meals", meals)
	}
}

func TestNearestActive(t *testing.T) {
	points := []FoodPoint{
		NewFoodPoint(0, 0, 1, 2, 10),
		NewFoodPoint(100, 100, 1, 2, 10),
		NewFoodPoint(300, 300, 1, 2, 10),
	}

	if got := NearestActive(points, 10, 10); got != &points[0] {
		t.Errorf("nearest = %+v, want first point", got)
	}

	points[0].Active = false
	if got := NearestActive(points, 10, 10); got != &points[1] {
		t.Errorf("nearest active = %+v, want second point", got)
	}

	points[1].Active = false
	points[2].Active = false
	if got := NearestActive(points, 10, 10); got != nil {
		t.Errorf("nearest with none active = %+v, want nil", got)
	}
}
