package main

import (
	"fmt"
	"os"
	"time"

	"github.com/DOFONSON/beliy-client/api"
	"github.com/DOFONSON/beliy-client/internal/utils"
	"github.com/DOFONSON/beliy-client/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Registered and logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the session and show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.client.Store().Session()
			if !s.Authenticated() {
				fmt.Println("Not logged in")
				return nil
			}

			user, err := a.client.CheckSession(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "session check failed")
			}

			printUser(user)
			if s.AccessTokenExpired(time.Now()) {
				fmt.Println("Access token: expired (will refresh on next call)")
			}
			return nil
		},
	}
}

func newProfileCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printUser(user)
			return nil
		},
	}

	cmd.AddCommand(newProfileUpdateCommand(a))
	return cmd
}

func newProfileUpdateCommand(a *app) *cobra.Command {
	var firstName, lastName, email, bio, avatarPath string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields, optionally uploading an avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update api.ProfileUpdate
			if cmd.Flags().Changed("first-name") {
				update.FirstName = utils.Ptr(firstName)
			}
			if cmd.Flags().Changed("last-name") {
				update.LastName = utils.Ptr(lastName)
			}
			if cmd.Flags().Changed("email") {
				update.Email = utils.Ptr(email)
			}
			if cmd.Flags().Changed("bio") {
				update.Bio = utils.Ptr(bio)
			}

			if avatarPath != "" {
				file, err := os.Open(avatarPath)
				if err != nil {
					return errors.Wrap(err, "open avatar file")
				}
				defer file.Close()
				update.Avatar = file
				update.AvatarName = file.Name()
			}

			user, err := a.client.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Println("Profile updated")
			printUser(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&bio, "bio", "", "profile bio")
	cmd.Flags().StringVar(&avatarPath, "avatar", "", "path to an avatar image")

	return cmd
}

func printUser(user *session.User) {
	fmt.Printf("%s (%s)\n", user.Username, user.Email)
	if user.FullName != "" {
		fmt.Printf("Name:   %s\n", user.FullName)
	}
	if bio := utils.Value(user.Bio); bio != "" {
		fmt.Printf("Bio:    %s\n", bio)
	}
	if avatar := utils.Value(user.AvatarURL); avatar != "" {
		fmt.Printf("Avatar: %s\n", avatar)
	}
	if user.DateJoined != "" {
		fmt.Printf("Joined: %s\n", user.DateJoined)
	}
}
