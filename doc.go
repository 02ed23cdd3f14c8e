// Package devverse is an interactive space-themed developer portfolio built
// on [Ebitengine].
//
// The app is a small retained-mode scene graph plus a client-side router.
// Each route mounts a [Page] from a [Registry]; pages build their nodes under
// the mount's root and may attach a parallax starfield to a [Canvas] in the
// background layer.
//
// # Quick start
//
// [Run] creates a window and game loop for an [App]:
//
//	reg := pages.RegisterAll(devverse.NewRegistry(), nil)
//	app, err := devverse.NewApp(svc, reg)
//	if err != nil {
//		return err
//	}
//	return devverse.Run(app, devverse.RunConfig{Start: "/"})
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's transform and alpha.
//
//	card := devverse.NewRect("card", 300, 180, devverse.MustHex("#111633"))
//	card.SetPosition(40, 120)
//	page.AddChild(card)
//
// A node with Href set is a link: clicking it, or any interactable
// descendant, navigates the router instead of running page code.
//
//	link := devverse.NewLink("home", "/", devverse.NewText("label", "Home", fonts.Body))
//
// # Scripted runs
//
// [LoadTestScript] reads a JSON script of click, move, navigate, back,
// forward, wait and screenshot steps. Attach it with [Scene.SetTestRunner]
// to drive the app without a human and capture PNG screenshots.
//
// [Ebitengine]: https://ebitengine.org
package devverse
