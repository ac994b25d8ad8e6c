// Package moonlight renders an animated night-sky backdrop for a personal
// portfolio page on top of [Ebitengine].
//
// The backdrop is a perspective 3D scene: a glowing moon with a procedural
// cratered texture, a twinkling starfield, slowly drifting geometric shapes,
// flapping butterflies and a falling particle trail, finished by a bloom
// pass. A scrollable single-page overlay (navbar, sections, CV modal) sits on
// top and drives the camera: scrolling pulls the camera back, tilts it and
// boosts the glow.
//
// # Quick start
//
// The simplest way to get started is [Run], which probes the host, builds the
// scene and opens a window (or takes over the canvas under js/wasm):
//
//	moonlight.Run(moonlight.DefaultConfig(), moonlight.RunConfig{
//		Title: "Portfolio", Width: 1280, Height: 720,
//	})
//
// For full control, build a [Backdrop] with [NewBackdrop] and hand it to
// [ebiten.RunGame] yourself; Backdrop implements [ebiten.Game].
//
// # Headless use
//
// The simulation does not need a GPU. [NewSceneContext] and
// [NewAnimationState] build the scene graph alone, and
// [AnimationState.Advance] steps it by any wall-clock delta:
//
//	caps := moonlight.Capabilities{ViewportWidth: 1920, ViewportHeight: 1080, DevicePixelRatio: 1}
//	scene := moonlight.NewSceneContext(cfg, caps, false)
//	state := moonlight.NewAnimationState(cfg, scene, cfg.Density.CountsFor(1920, false), nil)
//	state.Advance(1.0 / 60)
//
// # Reduced effects
//
// Narrow viewports, a reduced-motion preference and mobile user agents get a
// lighter scene: fewer objects, no butterflies or particles, pixel ratio 1
// and no bloom. See [DetectCapabilities] and [DensityConfig.CountsFor].
//
// # Tooling
//
// [LoadTestScript] and [Backdrop.SetTestRunner] replay scripted clicks,
// scrolls and resizes and capture screenshots, which is how the visual
// regression runs are driven.
//
// [Ebitengine]: https://ebitengine.org
package moonlight
