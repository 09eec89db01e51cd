package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/huskerjeff/powerlab/internal/remote"
)

// Client is the directory-service surface the bootstrap needs. Everything
// is addressed by name; existence checks precede every create.
type Client interface {
	OUExists(ctx context.Context, name string) (bool, error)
	CreateOU(ctx context.Context, name string) error

	GroupExists(ctx context.Context, name string) (bool, error)
	CreateGroup(ctx context.Context, group GroupRecord) error

	UserExists(ctx context.Context, name string) (bool, error)
	CreateUser(ctx context.Context, user UserRecord) error

	GroupMembers(ctx context.Context, group string) ([]string, error)
	AddGroupMember(ctx context.Context, group, member string) error
}

// adClient speaks to a domain controller by running directory cmdlets
// over an open remote session. All records of one bootstrap run travel
// through the same session.
type adClient struct {
	sess   remote.Session
	baseDN string
}

func NewADClient(sess remote.Session, baseDN string) Client {
	return &adClient{sess: sess, baseDN: baseDN}
}

func (c *adClient) ouPath(ouName string) string {
	return fmt.Sprintf("OU=%s,%s", ouName, c.baseDN)
}

func (c *adClient) run(ctx context.Context, cmdlet string) (string, error) {
	command := fmt.Sprintf(`powershell -NoProfile -NonInteractive -Command "%s"`, cmdlet)
	return c.sess.Run(ctx, command)
}

func (c *adClient) exists(ctx context.Context, query string) (bool, error) {
	out, err := c.run(ctx, query)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (c *adClient) OUExists(ctx context.Context, name string) (bool, error) {
	return c.exists(ctx, fmt.Sprintf(`Get-ADOrganizationalUnit -Filter \"Name -eq '%s'\"`, name))
}

func (c *adClient) CreateOU(ctx context.Context, name string) error {
	_, err := c.run(ctx, fmt.Sprintf(`New-ADOrganizationalUnit -Name '%s'`, name))
	return err
}

func (c *adClient) GroupExists(ctx context.Context, name string) (bool, error) {
	return c.exists(ctx, fmt.Sprintf(`Get-ADGroup -Filter \"Name -eq '%s'\"`, name))
}

func (c *adClient) CreateGroup(ctx context.Context, group GroupRecord) error {
	scope := group.Type
	if scope == "" {
		scope = "Global"
	}
	_, err := c.run(ctx, fmt.Sprintf(
		`New-ADGroup -Name '%s' -GroupScope %s -Path '%s'`,
		group.GroupName, scope, c.ouPath(group.OUName),
	))
	return err
}

func (c *adClient) UserExists(ctx context.Context, name string) (bool, error) {
	return c.exists(ctx, fmt.Sprintf(`Get-ADUser -Filter \"Name -eq '%s'\"`, name))
}

func (c *adClient) CreateUser(ctx context.Context, user UserRecord) error {
	_, err := c.run(ctx, fmt.Sprintf(
		`New-ADUser -Name '%s' -Path '%s'`,
		user.UserName, c.ouPath(user.OUName),
	))
	return err
}

func (c *adClient) GroupMembers(ctx context.Context, group string) ([]string, error) {
	out, err := c.run(ctx, fmt.Sprintf(
		`Get-ADGroupMember -Identity '%s' | Select-Object -ExpandProperty Name`, group,
	))
	if err != nil {
		return nil, err
	}

	var members []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			members = append(members, name)
		}
	}
	return members, nil
}

func (c *adClient) AddGroupMember(ctx context.Context, group, member string) error {
	_, err := c.run(ctx, fmt.Sprintf(
		`Add-ADGroupMember -Identity '%s' -Members '%s'`, group, member,
	))
	return err
}
