// Package sprig is a scene-graph pixel-art editor core for [Ebitengine].
//
// Sprig provides the document model, drawing tools, compositing pipeline,
// undo log, and frame animation that a tile/sprite editor needs: a tree of
// pixel objects, each owning a sparse pixel grid plus an affine transform
// and color effects, composited into a single raster.
//
// # Document model
//
// Every drawable is a [PixelObject]. Objects form a tree held by an [Asset],
// the value the host hands in and persists back out. The tree is treated as
// an immutable value: every mutation ([Asset.AddObject], [Asset.MoveObject],
// [Asset.DeleteObject], ...) returns a new Asset that shares all untouched
// subtrees with the old one, so a render pass holding an old snapshot never
// observes a half-mutated tree.
//
//	asset := sprig.NewAsset()
//	asset = asset.AddObject("")
//	raster := sprig.RenderAsset(asset, 64)
//
// # Drawing tools
//
// Pen, eraser, and flood fill implement [Tool] and run against a narrow
// [ToolContext]. The pen coalesces high-frequency pointer input into one
// smoothed curve per visual tick; no input point is ever dropped.
//
// # Interactive editing
//
// [Editor] wires the whole core to an Ebitengine game loop: pointer input,
// keyboard shortcuts, undo/redo, zoom, ghost overlays, and animation
// playback. For full control, implement [ebiten.Game] yourself and call
// [Editor.Update] and [Editor.Draw] directly, or use [Run]:
//
//	ed := sprig.NewEditor(asset, sprig.EditorConfig{CanvasSize: 64})
//	sprig.Run(ed, sprig.RunConfig{Title: "Sprig", Width: 640, Height: 480})
//
// Sprig is strictly single-threaded: all state is owned by the
// game loop, there are no locks, and the only suspension point is the
// "next visual tick" used by the stroke tools.
//
// ECS integration (via [Donburi]) lives in the sprig/ecs submodule.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package sprig
