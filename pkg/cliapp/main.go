/*
Package cliapp
Declarative command-line actions on top of urfave/cli.

A Tool is a named group of Actions. Every Action declares its arguments once;
the dispatcher turns them into flags, validates and converts the user's input,
binds it into a typed request and only then calls the handler.

Usage:

    type ShowRequest struct {
        Path string
        Json bool
    }

    var ProfilePath = cliapp.Argument{
        Key:         "profile_path",
        Flags:       []string{"--profile"},
        Description: "Path to the provisioning profile",
        Type:        cliapp.ExistingFile,
    }

    show := cliapp.NewAction[ShowRequest]("show").
        Describe("Show provisioning profile information").
        Required(ProfilePath).
        Optional(JsonOutput).
        Bind(func(values cliapp.Values) (ShowRequest, error) {
            return ShowRequest{
                Path: values.String("profile_path"),
                Json: values.Bool("json"),
            }, nil
        }).
        Run(func(ctx *cliapp.Context, request ShowRequest) error {
            ...
        }).
        MustBuild()

    tool := cliapp.NewTool("provisioning-profile", "Inspect provisioning profiles")
    tool.MustRegister(show)

    app := cliapp.NewApp("signkit", "Code signing helpers", "1.0.0")
    app.MustAddTool(tool)
    os.Exit(app.Run(ctx, os.Args))

Handlers report domain failures with *AppError; if the error carries the
*Process that failed, the process's exit code becomes the exit code of the
whole program.
*/
package cliapp
