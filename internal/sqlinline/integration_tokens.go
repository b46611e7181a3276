package sqlinline

const QSelectIntegrationToken = `--sql 96b889af-8136-4d00-9324-24cdf9a2e996
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql a73b4059-b1fc-4bf1-8a3a-924d0242b5a9
insert into integration_tokens (provider, token, properties, created_at, updated_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
