package realm

import (
	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/parser"
	"github.com/ecmago/ecma/internal/value"
)

// ModuleLoader lets an embedder supply how bare/relative specifiers in
// `import ... from "spec"` resolve to source text, mirroring
// eval_module's documented dependency on "an embedder-supplied
// ModuleLoader". ResolveModule turns a specifier plus the importing
// module's own resolved specifier into a canonical one (so two modules
// importing "./x" from different directories don't collide); LoadModule
// fetches that canonical specifier's source.
type ModuleLoader interface {
	ResolveModule(specifier, referrer string) (string, error)
	LoadModule(resolvedSpecifier string) (string, error)
}

// SetModuleLoader installs the loader eval_module's import resolution
// uses. Must be called before EvalModule if the module graph has more
// than one module.
func (r *Realm) SetModuleLoader(loader ModuleLoader) {
	r.loader = loader
}

// linkedModule is one module's compiled body plus its static
// import/export surface and its linked dependency list. Kept in
// Realm.modules keyed by resolved specifier so a module graph with
// diamond or cyclic dependencies links each module exactly once.
type linkedModule struct {
	specifier    string
	info         *bytecode.ModuleInfo
	env          *environment.Module
	deps         []*linkedModule
	reExportDeps map[string]*linkedModule // re-export/star-export specifier -> linked target

	evaluating bool
	evaluated  bool
	result     value.Value

	namespace *object.Object
}

// EvalModule parses source as a Module goal, links its import graph
// (resolving transitive imports through the registered ModuleLoader) and
// evaluates every module in dependency order, returning the entry
// module's completion value. A module already cached under the same
// specifier from a prior EvalModule call is relinked as a fresh entry
// point; only modules reached through ResolveModule/LoadModule are
// shared across calls.
func (r *Realm) EvalModule(source string) (value.Value, *errors.JsError) {
	lm, err := r.compileAndLinkModule("<entry>", source)
	if err != nil {
		return value.Undefined(), err
	}
	if err := r.evaluateModule(lm); err != nil {
		return value.Undefined(), err
	}
	return lm.result, nil
}

func (r *Realm) linkModule(specifier, referrer string) (*linkedModule, *errors.JsError) {
	if r.loader == nil {
		return nil, errors.NewNativef(errors.KindTypeError, "no ModuleLoader registered, cannot resolve import %q", specifier)
	}
	resolved, rerr := r.loader.ResolveModule(specifier, referrer)
	if rerr != nil {
		return nil, errors.NewNativef(errors.KindTypeError, "resolving module %q: %v", specifier, rerr)
	}
	if lm, ok := r.modules[resolved]; ok {
		return lm, nil
	}
	source, lerr := r.loader.LoadModule(resolved)
	if lerr != nil {
		return nil, errors.NewNativef(errors.KindTypeError, "loading module %q: %v", resolved, lerr)
	}
	return r.compileAndLinkModule(resolved, source)
}

// compileAndLinkModule parses and compiles source, registers its
// environment under specifier (before recursing into its imports, so a
// dependency cycle finds the partially-linked module instead of
// recursing forever), then wires every import/re-export against its
// dependencies.
func (r *Realm) compileAndLinkModule(specifier, source string) (*linkedModule, *errors.JsError) {
	p := parser.New(source)
	prog := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errors.NewNative(errors.KindSyntaxError, formatParseError(errs[0], specifier))
	}
	info, compileErrs := bytecode.CompileModule(prog, source)
	if len(compileErrs) > 0 {
		return nil, errors.NewNativef(errors.KindSyntaxError, "%s", compileErrs[0].Error())
	}

	lm := &linkedModule{
		specifier:    specifier,
		info:         info,
		env:          environment.NewModule(),
		reExportDeps: make(map[string]*linkedModule),
	}
	r.modules[specifier] = lm

	for _, imp := range info.Imports {
		target, err := r.linkModule(imp.Specifier, specifier)
		if err != nil {
			return nil, err
		}
		lm.deps = append(lm.deps, target)
		for _, b := range imp.Bindings {
			switch b.Kind {
			case bytecode.ImportBindingNamespace:
				ns := r.namespaceObject(target)
				lm.env.CreateMutableBinding(b.LocalName, false)
				lm.env.InitializeBinding(b.LocalName, value.ObjectValue(ns))
			default:
				name := b.ImportedName
				if b.Kind == bytecode.ImportBindingDefault {
					name = "default"
				}
				rec, targetName, ok := r.resolveExportBinding(target, name)
				if !ok {
					return nil, errors.NewNativef(errors.KindSyntaxError, "module %q has no export named %q", imp.Specifier, name)
				}
				lm.env.CreateImportBinding(b.LocalName, rec, targetName)
			}
		}
	}
	for _, re := range info.ReExports {
		target, err := r.linkModule(re.Specifier, specifier)
		if err != nil {
			return nil, err
		}
		lm.reExportDeps[re.Specifier] = target
	}
	for _, se := range info.StarExports {
		target, err := r.linkModule(se.Specifier, specifier)
		if err != nil {
			return nil, err
		}
		lm.reExportDeps[se.Specifier] = target
	}
	return lm, nil
}

// evaluateModule runs a module's body exactly once, evaluating every
// dependency first (post-order over the import graph). The evaluating
// flag breaks cycles: a module reached again while its own evaluation is
// still in progress is simply skipped here, since its exports are
// already linked as live bindings that will observe whatever value
// exists once the cycle unwinds.
func (r *Realm) evaluateModule(lm *linkedModule) *errors.JsError {
	if lm.evaluated || lm.evaluating {
		return nil
	}
	lm.evaluating = true
	for _, dep := range lm.deps {
		if err := r.evaluateModule(dep); err != nil {
			lm.evaluating = false
			return err
		}
	}
	lm.evaluating = false
	lm.evaluated = true
	r.VM.ClearInterrupt()
	v, err := r.VM.RunScript(lm.info.Code, lm.env)
	lm.result = v
	return err
}

// resolveExportBinding walks lm's own exports, then its re-export list,
// then its bare `export *` list, to find the environment record and
// binding name that ultimately backs an export name — following
// ResolveExport's re-export-chain-following role in the module linking
// algorithm, without needing a separate resolved-export cache since each
// lookup is O(exports) and only runs once per import site.
func (r *Realm) resolveExportBinding(lm *linkedModule, name string) (environment.Record, string, bool) {
	for _, eb := range lm.info.Exports {
		if eb.ExportedName == name {
			return lm.env, eb.LocalName, true
		}
	}
	for _, re := range lm.info.ReExports {
		if re.ExportedName == name {
			target := lm.reExportDeps[re.Specifier]
			return r.resolveExportBinding(target, re.ImportedName)
		}
	}
	for _, se := range lm.info.StarExports {
		if se.As == "" {
			target := lm.reExportDeps[se.Specifier]
			if rec, tn, ok := r.resolveExportBinding(target, name); ok {
				return rec, tn, ok
			}
		}
	}
	return nil, "", false
}

// exportReader builds the live-value reader a Module Namespace object
// (or another module re-exporting `* as ns`) needs for one export name.
func (r *Realm) exportReader(lm *linkedModule, name string) (func() value.Value, bool) {
	for _, se := range lm.info.StarExports {
		if se.As == name {
			target := lm.reExportDeps[se.Specifier]
			return func() value.Value { return value.ObjectValue(r.namespaceObject(target)) }, true
		}
	}
	rec, targetName, ok := r.resolveExportBinding(lm, name)
	if !ok {
		return nil, false
	}
	return func() value.Value {
		v, _ := rec.GetBindingValue(targetName, true)
		return v
	}, true
}

// collectExportNames lists every name lm exports, following bare `export
// *` aggregation (excluding "default", which `export *` never forwards)
// and guarding against re-export cycles via seen.
func (r *Realm) collectExportNames(lm *linkedModule, seen map[*linkedModule]bool) []string {
	if seen[lm] {
		return nil
	}
	seen[lm] = true
	var names []string
	for _, eb := range lm.info.Exports {
		names = append(names, eb.ExportedName)
	}
	for _, re := range lm.info.ReExports {
		names = append(names, re.ExportedName)
	}
	for _, se := range lm.info.StarExports {
		if se.As != "" {
			names = append(names, se.As)
			continue
		}
		target := lm.reExportDeps[se.Specifier]
		for _, n := range r.collectExportNames(target, seen) {
			if n != "default" {
				names = append(names, n)
			}
		}
	}
	return names
}

// namespaceObject builds (and caches) the Module Namespace exotic object
// backing `import * as ns` and `export * as ns`.
func (r *Realm) namespaceObject(lm *linkedModule) *object.Object {
	if lm.namespace != nil {
		return lm.namespace
	}
	names := r.collectExportNames(lm, make(map[*linkedModule]bool))
	exports := make(map[string]func() value.Value, len(names))
	for _, n := range names {
		if reader, ok := r.exportReader(lm, n); ok {
			exports[n] = reader
		}
	}
	ns := object.NewModuleNamespace(lm, exports)
	lm.namespace = ns
	return ns
}
