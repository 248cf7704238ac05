package walk

import (
	"impc/ast"
	"impc/report"
	"impc/scope"
	"impc/types"
)

// closureSite is a place a function is used from: a call by name or a
// reference to the function as a value.
type closureSite struct {
	// Exactly one of call and ident is set.
	call  *ast.Call
	ident *ast.Identifier

	// The function used.
	fn *types.Function

	// The scope of the use.
	scope *scope.Scope

	// The number of locals defined when the use was walked.  Locals defined
	// later are not visible from the site.
	mark int
}

// addSite records a function use in the current scope.
func (w *Walker) addSite(site *closureSite) {
	site.scope = w.scope
	site.mark = len(w.defOrder)
	w.sites = append(w.sites, site)
}

// span returns the span of the site.
func (site *closureSite) span() *report.TextSpan {
	if site.call != nil {
		return site.call.Span()
	}

	return site.ident.Span()
}

// lookupFromSite looks up a local visible from a site by name.
func (w *Walker) lookupFromSite(site *closureSite, name string) (*scope.Local, bool) {
	local, _ := site.scope.LookupDeclared(name)
	for local != nil && !w.visibleFromSite(site, local) {
		local = local.Shadowed
	}

	return local, local != nil
}

// visibleFromSite returns whether a local had been defined when the site was
// walked.
func (w *Walker) visibleFromSite(site *closureSite, local *scope.Local) bool {
	if !local.Defined {
		return false
	}

	// Parameters are defined before walking starts.
	order, ok := w.defOrder[local]
	return !ok || order < site.mark
}

// -----------------------------------------------------------------------------

// planClosures decides how every use of a closure-converted function obtains
// its closure object.  Captures are first propagated through the sites until
// no capture set changes: a function calling a closure must itself capture
// whatever the closure needs from beyond its own frame.  Then every call by
// name is bound to a holder local of the calling scope and every value
// reference gets the locals bound to its captures.
func (w *Walker) planClosures() {
	for changed := true; changed; {
		changed = false

		for _, site := range w.sites {
			for _, capture := range site.fn.Captures {
				local, ok := w.lookupFromSite(site, capture.Name)
				if ok && !local.IsGlobal() && propagateCapture(local, site.scope.Frame()) {
					changed = true
				}
			}
		}
	}

	// A holder is initialized once an unconditional call has created its
	// object.
	initialized := make(map[*scope.Local]bool)

	for _, site := range w.sites {
		if !site.fn.IsClosure() {
			continue
		}

		plan := &ast.ClosurePlan{Captures: w.bindCaptures(site)}

		if site.ident != nil {
			site.ident.Plan = plan
			continue
		}

		plan.Holder = w.holderFor(site)
		plan.InitHolder = site.call.Conditional || !initialized[plan.Holder]
		if !site.call.Conditional {
			initialized[plan.Holder] = true
		}

		site.call.Kind = ast.CallClosure
		site.call.Plan = plan
	}
}

// bindCaptures resolves the captures of a site's function by name from the
// site.
func (w *Walker) bindCaptures(site *closureSite) []*scope.Local {
	var bound []*scope.Local

	for _, capture := range site.fn.Captures {
		local, ok := w.lookupFromSite(site, capture.Name)
		if !ok {
			w.recError(
				report.NameNotFound,
				site.span(),
				"`%s` captures `%s` which is not visible here",
				site.fn.Name,
				capture.Name,
			)

			continue
		}

		if !types.Equals(local.Type, capture.Type) {
			w.recError(
				report.TypeMismatch,
				site.span(),
				"`%s` captures `%s` of type `%s` but `%s` here has type `%s`",
				site.fn.Name,
				capture.Name,
				capture.Type.Repr(),
				capture.Name,
				local.Type.Repr(),
			)
		}

		bound = append(bound, local)
	}

	return bound
}

// holderFor returns the local holding the closure object of a call site's
// function in the site's scope.  The holder is declared on first use.
func (w *Walker) holderFor(site *closureSite) *scope.Local {
	name := site.fn.ClassName()

	if holder, ok := site.scope.LookupOwn(name); ok {
		return holder
	}

	holder, err := site.scope.Declare(name, site.fn, scope.LocalHolder, true)
	if err != nil {
		report.ICE("failed to declare closure holder: %s", err)
	}

	holder.Defined = true
	return holder
}
