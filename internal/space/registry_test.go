package space

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/pool"
)

func TestRegisterSpaceship(t *testing.T) {
	r := newTestRegistry()
	ship := r.RegisterSpaceship(
		Body{Position: core.V(12, -3), Rotation: 365, Visible: true},
		&stubBrain{},
		Appearance{Name: "Rookie", Secondary: core.ColorYellow},
	)

	v := ship.View()
	if !v.IsAlive() || v.Health() != 100 || v.Energy() != 400 {
		t.Errorf("fresh ship health=%d energy=%d alive=%v", v.Health(), v.Energy(), v.IsAlive())
	}
	if v.Position() != core.V(-8, -3) {
		t.Errorf("Position() = %v, expected the wrapped (-8, -3)", v.Position())
	}
	if v.Rotation() != 5 {
		t.Errorf("Rotation() = %v, expected 5", v.Rotation())
	}
	if v.PrimaryColor() != core.ColorWhite || v.SecondaryColor() != core.ColorYellow {
		t.Errorf("colors = %v/%v", v.PrimaryColor(), v.SecondaryColor())
	}
	if len(r.Ships()) != 1 || len(r.LiveShips()) != 1 {
		t.Errorf("expected the ship in both lists, got %d/%d", len(r.Ships()), len(r.LiveShips()))
	}
}

func TestRemoveSpaceshipKeepsEntity(t *testing.T) {
	r := newTestRegistry()
	ship := addShip(r, "ghost", 0, 0, 0)
	ship.Kill()

	if err := r.RemoveSpaceship(ship); err != nil {
		t.Fatalf("RemoveSpaceship() failed: %v", err)
	}
	if len(r.LiveShips()) != 0 {
		t.Error("ship should leave the live list")
	}
	if len(r.Ships()) != 1 {
		t.Error("ship should stay registered for respawn")
	}
	if ship.View().Name() != "ghost" {
		t.Error("removed ship should keep its state")
	}

	err := r.RemoveSpaceship(ship)
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second RemoveSpaceship() = %v, expected ErrNotRegistered", err)
	}
}

func TestRemoveShotReturnsToPool(t *testing.T) {
	r := newTestRegistry()
	ship := addShip(r, "gunner", 0, 0, 0)
	shot := ship.Fire()
	view := shot.View()

	if _, _, inUse, _ := r.Pools(); inUse != 1 {
		t.Fatalf("shots in use = %d, expected 1", inUse)
	}
	if err := r.RemoveShot(shot); err != nil {
		t.Fatalf("RemoveShot() failed: %v", err)
	}
	if _, _, inUse, _ := r.Pools(); inUse != 0 {
		t.Errorf("shots in use = %d after removal, expected 0", inUse)
	}
	if view.IsAlive() || !shot.IsDetached() {
		t.Error("views of a removed shot must report dead")
	}
	if err := r.RemoveShot(shot); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second RemoveShot() = %v, expected ErrNotRegistered", err)
	}

	// The freed slot is reused and the old view does not alias the new shot.
	next := ship.Fire()
	if view.IsAlive() {
		t.Error("stale view resolved to the recycled shot")
	}
	if !next.IsAlive() {
		t.Error("new shot should be alive")
	}
}

func TestShotPoolEvictsOldestShot(t *testing.T) {
	opts := DefaultOptions()
	opts.ShotPool = pool.Options{Initial: 2, Grow: 1, Max: 2}
	r := NewRegistry(opts)
	ship := addShip(r, "spammer", 0, 0, 0)

	first := ship.Fire()
	ship.Fire()
	ship.Fire()

	if len(r.Shots()) != 2 {
		t.Fatalf("live shots = %d, expected the pool max of 2", len(r.Shots()))
	}
	if !first.IsDetached() {
		t.Error("the longest-running shot should have been recycled")
	}
}

func TestShotLifetime(t *testing.T) {
	r := newTestRegistry()
	ship := addShip(r, "gunner", 0, 0, 0)

	fired := r.BeginTick()
	shot := ship.Fire()
	shot.DoTurn()
	if shot.View().TurnsToLive() != r.Rules().ShotLifetime {
		t.Fatal("a shot must not advance during the tick it was fired")
	}

	n := uint64(r.Rules().ShotLifetime)
	for tick := fired + 1; tick <= fired+n; tick++ {
		r.BeginTick()
		shot.DoTurn()
		switch {
		case tick == fired+n-1 && !shot.IsAlive():
			t.Fatalf("shot dead at tick T+N-1")
		case tick == fired+n && shot.IsAlive():
			t.Fatalf("shot alive at tick T+N")
		}
	}
}

func TestViewReturnsCopies(t *testing.T) {
	r := newTestRegistry()
	addShip(r, "a", 1, 1, 0)
	addShip(r, "b", 2, 2, 0)
	view := r.View()

	ships := view.Ships()
	ships[0] = ships[1]

	again := view.Ships()
	if len(again) != 2 || again[0].Name() != "a" {
		t.Errorf("mutating a view slice changed the registry: %v", again)
	}
}

func TestClear(t *testing.T) {
	r := newTestRegistry()
	ship := addShip(r, "a", 0, 0, 0)
	ship.Fire()
	r.BeginTick()

	r.Clear()
	if len(r.Ships()) != 0 || len(r.Shots()) != 0 || len(r.LiveShips()) != 0 {
		t.Error("Clear() should empty every list")
	}
	if ship.IsAlive() {
		t.Error("controllers from before Clear() must go stale")
	}
	if si, _, shi, _ := r.Pools(); si != 0 || shi != 0 {
		t.Errorf("pools in use = %d/%d after Clear()", si, shi)
	}
	if r.Tick() != 0 {
		t.Errorf("Tick() = %d after Clear()", r.Tick())
	}
}

func TestSpawnPointEmptyArena(t *testing.T) {
	r := newTestRegistry()
	p := r.GetSpawnPoint()

	// Only the corners: one of the two halves of the square is chosen.
	third := 10.0 / 3
	if !approx(math.Abs(p.X), third) || !approx(math.Abs(p.Y), third) {
		t.Errorf("GetSpawnPoint() = %v, expected a corner-triangle centroid", p)
	}
}

func TestSpawnPointAroundCenterShip(t *testing.T) {
	r := newTestRegistry()
	addShip(r, "center", 0, 0, 0)
	p := r.GetSpawnPoint()

	edge := 20.0 / 3
	ax, ay := math.Abs(p.X), math.Abs(p.Y)
	ok := (approx(ax, 0) && approx(ay, edge)) || (approx(ax, edge) && approx(ay, 0))
	if !ok {
		t.Errorf("GetSpawnPoint() = %v, expected the centroid of a center-fan triangle", p)
	}
}

func TestSpawnPointPicksLargestTriangle(t *testing.T) {
	r := newTestRegistry()
	addShip(r, "offset", 3, 2, 0)

	// The fan around (3, 2) is largest on the left: 20 x 13 / 2.
	p := r.GetSpawnPoint()
	if !approx(p.X, -17.0/3) || !approx(p.Y, 2.0/3) {
		t.Errorf("GetSpawnPoint() = %v, expected (-17/3, 2/3)", p)
	}
}

func TestSpawnPointAvoidsOccupants(t *testing.T) {
	layouts := []struct {
		name  string
		ships []core.Vec2
	}{
		{"square", []core.Vec2{core.V(-5, -5), core.V(5, -5), core.V(-5, 5), core.V(5, 5)}},
		{"offset", []core.Vec2{core.V(3, 2)}},
		{"center", []core.Vec2{core.V(0, 0)}},
	}

	for _, tc := range layouts {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRegistry()
			for _, p := range tc.ships {
				addShip(r, tc.name, p.X, p.Y, 0)
			}

			p := r.GetSpawnPoint()
			if p.X < -10 || p.X >= 10 || p.Y < -10 || p.Y >= 10 {
				t.Fatalf("spawn %v outside the arena", p)
			}
			minGap := 2 * r.Rules().ShipRadius
			for _, s := range r.LiveShips() {
				if d := ClosestOffset(r.Arena(), p, s.Position()).Length(); d <= minGap {
					t.Errorf("spawn %v only %.2f from %v", p, d, s.Position())
				}
			}
		})
	}
}

func TestTriangulateCoversHull(t *testing.T) {
	arena := Arena{Width: 20, Height: 20}
	corners := arena.Corners()
	rng := rand.New(rand.NewSource(5))
	coord := func() float64 { return rng.Float64()*20 - 10 }

	layouts := []struct {
		name  string
		point func(i int) core.Vec2
	}{
		{"uniform", func(int) core.Vec2 { return core.V(coord(), coord()) }},
		{"left edge", func(i int) core.Vec2 {
			if i%2 == 0 {
				return core.V(-10, coord())
			}
			return core.V(coord(), coord())
		}},
		{"bottom edge", func(i int) core.Vec2 {
			if i%3 == 0 {
				return core.V(coord(), -10)
			}
			return core.V(coord(), coord())
		}},
	}

	for _, tc := range layouts {
		t.Run(tc.name, func(t *testing.T) {
			for round := 0; round < 300; round++ {
				pts := append([]core.Vec2(nil), corners[:]...)
				for i := 0; i < 1+round%12; i++ {
					pts = append(pts, tc.point(i))
				}

				tris := Triangulate(pts)
				total := 0.0
				for _, tri := range tris {
					total += TriangleArea(pts, tri)
				}
				if math.Abs(total-400) > 1e-6 {
					t.Fatalf("round %d: triangles cover %.6f, expected the full 400", round, total)
				}

				boundary := 0
				for _, p := range pts {
					if math.Abs(p.X) == 10 || math.Abs(p.Y) == 10 {
						boundary++
					}
				}
				if want := 2*len(pts) - 2 - boundary; len(tris) != want {
					t.Fatalf("round %d: %d triangles for %d points, expected %d", round, len(tris), len(pts), want)
				}
			}
		})
	}
}

func TestTriangulateEmptyCircumcircles(t *testing.T) {
	corners := Arena{Width: 20, Height: 20}.Corners()
	rng := rand.New(rand.NewSource(9))
	for round := 0; round < 200; round++ {
		pts := append([]core.Vec2(nil), corners[:]...)
		for i := 0; i < 2+round%10; i++ {
			pts = append(pts, core.V(rng.Float64()*20-10, rng.Float64()*20-10))
		}

		for _, tri := range Triangulate(pts) {
			a, b, c := pts[tri[0]], pts[tri[1]], pts[tri[2]]
			if orient(a, b, c) <= 0 {
				t.Fatalf("round %d: triangle %v is not counter-clockwise", round, tri)
			}
			for i, p := range pts {
				if i == tri[0] || i == tri[1] || i == tri[2] {
					continue
				}
				if inCircle(a, b, c, p) > 1e-6 {
					t.Fatalf("round %d: point %v inside the circumcircle of %v", round, p, tri)
				}
			}
		}
	}
}

func TestTriangulateSplitsEdges(t *testing.T) {
	pts := []core.Vec2{core.V(0, 0), core.V(4, 0), core.V(4, 4), core.V(0, 4), core.V(2, 0), core.V(2, 2)}
	tris := Triangulate(pts)
	if len(tris) != 5 {
		t.Fatalf("got %d triangles, expected 5", len(tris))
	}
	for _, tri := range tris {
		if TriangleArea(pts, tri) <= 0 {
			t.Errorf("degenerate triangle %v", tri)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	if tris := Triangulate([]core.Vec2{core.V(0, 0), core.V(1, 1)}); tris != nil {
		t.Errorf("two points produced %v", tris)
	}
	if tris := Triangulate([]core.Vec2{core.V(1, 1), core.V(1, 1), core.V(1, 1)}); tris != nil {
		t.Errorf("coincident points produced %v", tris)
	}
	if _, ok := LargestTriangleCentroid(nil); ok {
		t.Error("expected no centroid for an empty point set")
	}
}
