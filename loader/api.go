package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", dice = {...}, ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Die "id" { faces = {...}, weights = {...} }, curried like the other
	// named constructors.
	L.SetGlobal("Die", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.dice = append(coll.dice, rawDie{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))
}

func registerHelpers(L *lua.LState) {
	// Range(a, b [, step]) returns the array a, a+step, ... up to b.
	L.SetGlobal("Range", L.NewFunction(func(L *lua.LState) int {
		from := float64(L.CheckNumber(1))
		to := float64(L.CheckNumber(2))
		step := float64(L.OptNumber(3, 1))
		if step == 0 {
			L.ArgError(3, "step must not be zero")
			return 0
		}
		tbl := L.NewTable()
		const limit = 1 << 16
		n := 0
		for v := from; (step > 0 && v <= to) || (step < 0 && v >= to); v = from + float64(n)*step {
			if n >= limit {
				L.RaiseError("Range(%v, %v, %v) produces more than %d values", from, to, step, limit)
				return 0
			}
			tbl.Append(lua.LNumber(v))
			n++
		}
		L.Push(tbl)
		return 1
	}))

	// Repeat("id", n) returns an array holding "id" n times.
	L.SetGlobal("Repeat", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		n := L.CheckInt(2)
		if n < 0 {
			L.ArgError(2, "count must not be negative")
			return 0
		}
		tbl := L.NewTable()
		for i := 0; i < n; i++ {
			tbl.Append(lua.LString(id))
		}
		L.Push(tbl)
		return 1
	}))
}
