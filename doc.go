// Package supermode propagates mode amplitudes through a tapered
// multi-core optical fibre using coupled-mode theory.
//
// 🚀 What is supermode?
//
//	A pure-Go engine that takes supermodes pre-computed on a sweep of
//	inverse taper ratios (ITR) and integrates their complex amplitudes
//	along the taper:
//		• ITR ↔ slice mapping on a strictly monotonic ITR grid
//		• Mode pairs: all, pairs among modes of interest, and modes of interest against all
//		• Transmission matrix: β on the diagonal, ±coupling off it
//		• Coupling factor: d(ln ITR)/dz from the taper profile
//		• Mode sorting by β, or by solver then β
//		• Adaptive Runge–Kutta propagation (RK45, RK23)
//
// ✨ Layout
//
//	interp/        1-D linear interpolation and gradients
//	itr/           ITR grid and fractional slice lookup
//	matrix/        Cube: one complex n×n matrix per slice, blend and matvec kernels
//	mode/          Supermode data: β, fields, couplings and identity keys
//	profile/       taper profiles (tabulated, linear)
//	ode/           adaptive explicit Runge–Kutta integrator over complex vectors
//	superset/      the SuperSet: pairs, sorting, transmission matrix, propagation
//	archive/       YAML persistence of a SuperSet and its profile
//	runstore/      SQLite history of propagation runs
//	internal/cli/  cobra commands behind cmd/supermode
//
// Quick start:
//
//	set, _ := superset.New(itrList, 1.55e-6, modes)
//	taper, _ := profile.NewLinearTaper(1, 0.05, 5e-3, 200)
//	res, _ := set.Propagate(ctx, taper, []complex128{1, 0})
//	fmt.Println(res.Power())
//
//	go install github.com/katalvlaran/supermode/cmd/supermode@latest
package supermode
