// Package directory seeds a freshly promoted forest with test OUs,
// groups, users and memberships from a workbook. Every create is guarded
// by an existence check, so re-running a bootstrap is harmless. Groups
// are processed fully before users so a user's target group exists by the
// time its membership is added.
package directory

import (
	"context"
	"fmt"

	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

// Bootstrap creates the recorded objects in order. The first failing
// record aborts the remainder of the batch.
func Bootstrap(ctx context.Context, client Client, groups []GroupRecord, users []UserRecord) error {
	for _, group := range groups {
		if err := ensureOU(ctx, client, group.OUName); err != nil {
			return err
		}
		if err := ensureGroup(ctx, client, group); err != nil {
			return err
		}
	}

	for _, user := range users {
		if err := ensureOU(ctx, client, user.OUName); err != nil {
			return err
		}
		if err := ensureUser(ctx, client, user); err != nil {
			return err
		}
		if err := ensureMembership(ctx, client, user); err != nil {
			return err
		}
	}
	return nil
}

func ensureOU(ctx context.Context, client Client, name string) error {
	exists, err := client.OUExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking OU %s: %w", name, err)
	}
	if exists {
		zap.S().Named("directory").Infof("OU %s already exists, skipping creation", name)
		return nil
	}
	if err := client.CreateOU(ctx, name); err != nil {
		return fmt.Errorf("creating OU %s: %w", name, err)
	}
	zap.S().Named("directory").Infof("created OU %s", name)
	return nil
}

func ensureGroup(ctx context.Context, client Client, group GroupRecord) error {
	exists, err := client.GroupExists(ctx, group.GroupName)
	if err != nil {
		return fmt.Errorf("checking group %s: %w", group.GroupName, err)
	}
	if exists {
		zap.S().Named("directory").Infof("group %s already exists, skipping creation", group.GroupName)
		return nil
	}
	if err := client.CreateGroup(ctx, group); err != nil {
		return fmt.Errorf("creating group %s: %w", group.GroupName, err)
	}
	zap.S().Named("directory").Infof("created group %s", group.GroupName)
	return nil
}

func ensureUser(ctx context.Context, client Client, user UserRecord) error {
	exists, err := client.UserExists(ctx, user.UserName)
	if err != nil {
		return fmt.Errorf("checking user %s: %w", user.UserName, err)
	}
	if exists {
		zap.S().Named("directory").Infof("user %s already exists, skipping creation", user.UserName)
		return nil
	}
	if err := client.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("creating user %s: %w", user.UserName, err)
	}
	zap.S().Named("directory").Infof("created user %s", user.UserName)
	return nil
}

func ensureMembership(ctx context.Context, client Client, user UserRecord) error {
	if user.MemberOf == "" {
		return nil
	}
	members, err := client.GroupMembers(ctx, user.MemberOf)
	if err != nil {
		return fmt.Errorf("listing members of %s: %w", user.MemberOf, err)
	}
	if funk.ContainsString(members, user.UserName) {
		zap.S().Named("directory").Infof("user %s already a member of %s, skipping", user.UserName, user.MemberOf)
		return nil
	}
	if err := client.AddGroupMember(ctx, user.MemberOf, user.UserName); err != nil {
		return fmt.Errorf("adding %s to %s: %w", user.UserName, user.MemberOf, err)
	}
	zap.S().Named("directory").Infof("added %s to group %s", user.UserName, user.MemberOf)
	return nil
}
