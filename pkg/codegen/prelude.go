package codegen

import (
	"strings"

	"github.com/walteh/vtsc/pkg/pipeline"
)

// preludeTypes is always emitted. Macro signatures return their type
// argument or argument so that a captured result carries the declared type.
const preludeTypes = `type __VTSC_Instance<P, E, S, X, O> = { props: P; emits: E; slots: S; exposed: X; options: O };
type __VTSC_Context<C> = (C extends { data?(...args: any[]): infer D } ? D : {}) &
	(C extends { methods?: infer M } ? M : {}) &
	(C extends { computed?: infer G } ? { [K in keyof G]: G[K] extends (...args: any[]) => infer R ? R : G[K] } : {}) &
	Record<string, any>;
type __VTSC_PropType<T> = T extends { type: infer C } ? __VTSC_PropType<C>
	: T extends StringConstructor ? string
	: T extends NumberConstructor ? number
	: T extends BooleanConstructor ? boolean
	: T extends ArrayConstructor ? unknown[]
	: T extends ObjectConstructor ? Record<string, unknown>
	: T extends FunctionConstructor ? (...args: any[]) => any
	: T extends abstract new (...args: any) => infer I ? I
	: any;
type __VTSC_RuntimeProps<T> = { readonly [K in keyof T]?: __VTSC_PropType<T[K]> };
type __VTSC_ModelRef<T> = { value: T };
declare function defineProps<T>(): Readonly<T>;
declare function defineProps<const N extends readonly string[]>(props: N): { readonly [K in N[number]]?: any };
declare function defineProps<T extends Record<string, any>>(props: T): __VTSC_RuntimeProps<T>;
declare function withDefaults<P, D extends Partial<P>>(props: P, defaults: D): P;
declare function defineEmits<T>(): T;
declare function defineEmits<const N extends readonly string[]>(events: N): (event: N[number], ...args: any[]) => void;
declare function defineEmits<T extends Record<string, any>>(events: T): (event: keyof T & string, ...args: any[]) => void;
declare function defineSlots<T>(): T;
declare function defineExpose<T>(exposed?: T): T;
declare function defineOptions<T>(options?: T): T;
declare function defineModel<T>(options?: { required?: boolean; default?: T }): __VTSC_ModelRef<T>;
declare function defineModel<T>(name: string, options?: { required?: boolean; default?: T }): __VTSC_ModelRef<T>;
`

// helperDecls holds the declaration of every helper the plugins may use.
var helperDecls = []struct {
	name string
	decl string
}{
	{"renderList", `type __VTSC_ListArgs<T> = T extends readonly (infer V)[] ? [value: V, index: number]
	: T extends number ? [value: number, index: number]
	: T extends string ? [value: string, index: number]
	: T extends Iterable<infer V> ? [value: V, index: number]
	: [value: T[keyof T], key: keyof T, index: number];
declare function __VTSC_renderList<T>(source: T, render: (...args: __VTSC_ListArgs<T>) => void): void;
`},
	{"element", `declare function __VTSC_element<K extends keyof HTMLElementTagNameMap>(tag: K, props: Record<string, unknown>): HTMLElementTagNameMap[K];
declare function __VTSC_element(tag: string, props: Record<string, unknown>): unknown;
`},
	{"component", `type __VTSC_ComponentProps<C> = C extends new (...args: any) => { $props: infer P } ? P
	: C extends (props: infer P, ...args: any) => any ? P
	: Record<string, unknown>;
declare function __VTSC_component<C>(component: C, props: __VTSC_ComponentProps<C> & Record<string, unknown>): C;
`},
	{"renderSlot", `declare function __VTSC_renderSlot<C>(component: C, name: string, render: ((...props: any[]) => void) | undefined): void;
`},
	{"directive", `type __VTSC_DirectiveHook<V> = (el: any, binding: { value: V }, ...args: any[]) => any;
type __VTSC_DirectiveValue<D> = 0 extends 1 & D ? any
	: D extends __VTSC_DirectiveHook<infer V> ? V
	: D extends { mounted: __VTSC_DirectiveHook<infer V> } ? V
	: D extends { updated: __VTSC_DirectiveHook<infer V> } ? V
	: D extends { created: __VTSC_DirectiveHook<infer V> } ? V
	: D extends { beforeMount: __VTSC_DirectiveHook<infer V> } ? V
	: D extends { beforeUpdate: __VTSC_DirectiveHook<infer V> } ? V
	: unknown;
declare function __VTSC_directive<D>(directive: D, binding: { value?: __VTSC_DirectiveValue<D>; arg?: string; modifiers: Record<string, boolean> }): void;
`},
}

// Prelude returns the declarations the options document relies on, limited
// to the helpers the plugins used.
func Prelude(pc *pipeline.PassContext) string {
	var sb strings.Builder
	sb.WriteString(preludeTypes)
	for _, h := range helperDecls {
		if pc.Helpers.Has(h.name) {
			sb.WriteString(h.decl)
		}
	}
	return rename(pc, sb.String())
}

func rename(pc *pipeline.PassContext, s string) string {
	if pc.Prefix == pipeline.DefaultPrefix {
		return s
	}
	return strings.ReplaceAll(s, pipeline.DefaultPrefix, pc.Prefix)
}
