package cmd

import (
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/user"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type userFlags struct {
	uuid    string
	page    int
	size    int
	email   string
	role    string
	enabled bool
}

var (
	userOpts = &userFlags{}
)

var cmdUser = &cobra.Command{
	Use:   "user",
	Short: "Manage platform users",
}

var cmdUserList = &cobra.Command{
	Use:   "list",
	Short: "List a page of users",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		l := user.NewUsersList(
			pfee.Provider,
			pfee.Stores.Users,
			pfee.Logger,
			model.Pagination{Page: userOpts.page, Size: userOpts.size},
			model.UserFilter{Email: userOpts.email, Role: userOpts.role, Enabled: userOpts.enabled},
		)

		result, _ := l.Mount(ctx)
		render(mustSucceed(pfee.Logger, result))
	},
}

var cmdUserCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		c := user.NewCreateUser(pfee.Provider, pfee.Stores.Users, pfee.Logger)
		render(mustSucceed(pfee.Logger, c.Create(ctx, userFromFlags(uuid.Nil))))
	},
}

var cmdUserUpdate = &cobra.Command{
	Use:   "update",
	Short: "Update a user account",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		id, err := uuid.Parse(userOpts.uuid)
		if err != nil {
			pfee.Logger.Fatal(err)
		}

		u := user.NewUpdateUser(pfee.Provider, pfee.Stores.Users, pfee.Logger)
		render(mustSucceed(pfee.Logger, u.Update(ctx, userFromFlags(id))))
	},
}

var cmdUserDelete = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user account",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		id, err := uuid.Parse(userOpts.uuid)
		if err != nil {
			pfee.Logger.Fatal(err)
		}

		d := user.NewDeleteUser(pfee.Provider, pfee.Stores.Users, pfee.Logger)
		renderPayload(mustSucceed(pfee.Logger, d.Delete(ctx, id)))

		pfee.Logger.WithField("uuid", id).Info("user deleted")
	},
}

func userFromFlags(id uuid.UUID) model.User {
	return model.User{
		UUID:      id,
		Email:     userOpts.email,
		Role:      userOpts.role,
		IsEnabled: userOpts.enabled,
	}
}

func init() {
	cmdUserList.Flags().IntVar(&userOpts.page, "page", 0, "page number, starting at 0")
	cmdUserList.Flags().IntVar(&userOpts.size, "size", model.DefaultPageSize, "page size")

	for _, c := range []*cobra.Command{cmdUserList, cmdUserCreate, cmdUserUpdate} {
		c.Flags().StringVar(&userOpts.email, "email", "", "user email")
		c.Flags().StringVar(&userOpts.role, "role", "", "user role, ADMIN or USER")
		c.Flags().BoolVar(&userOpts.enabled, "enabled", false, "user account is enabled")
	}

	if err := cmdUserCreate.MarkFlagRequired("email"); err != nil {
		panic(err)
	}

	for _, c := range []*cobra.Command{cmdUserUpdate, cmdUserDelete} {
		c.Flags().StringVar(&userOpts.uuid, "uuid", "", "user identifier")

		if err := c.MarkFlagRequired("uuid"); err != nil {
			panic(err)
		}
	}

	cmdUser.AddCommand(cmdUserList, cmdUserCreate, cmdUserUpdate, cmdUserDelete)
	rootCmd.AddCommand(cmdUser)
}
